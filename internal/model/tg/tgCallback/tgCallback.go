package tgCallback

// Callback button uniques; the button payload carries the ticker.
const (
	Analyze string = "analyze"
	Memo    string = "memo"
	Report  string = "report"
)
