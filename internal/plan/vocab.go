package plan

// Keyword tables for scoring extracted flags. A flag's score is the number
// of keywords appearing as a substring of its lowercased name.
var (
	inputKeywords  = []string{"input", "csv", "path", "file"}
	outputKeywords = []string{"out", "output", "report", "result"}
)

// reportFileName is the fixed target inside the output directory for
// output flags that expect a file rather than a directory.
const reportFileName = "report.json"

// outputFlag is an entry in the fallback output vocabulary. Dir marks
// directory-expecting spellings; the rest target a file in the output
// directory.
type outputFlag struct {
	Flag string
	Dir  bool
}

// Fallback vocabularies: common spellings tried exhaustively when the
// scored flags (or the whole surface) turn out to be wrong. Kept as data
// tables rather than inline logic so they are independently testable and
// easy to extend.
var (
	inputVocab = []string{
		"--input",
		"--input-csv",
		"--input_csv",
		"--csv",
		"--path",
		"--file",
		"--input-file",
		"--input_file",
	}

	outputVocab = []outputFlag{
		{Flag: "--outdir", Dir: true},
		{Flag: "--out-dir", Dir: true},
		{Flag: "--output-dir", Dir: true},
		{Flag: "--output_dir", Dir: true},
		{Flag: "--out", Dir: false},
		{Flag: "--output", Dir: false},
	}
)
