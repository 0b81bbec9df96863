package model

// Report is a rendered counterparty workbook ready for delivery. Exactly one
// of FileBytes / DownloadLink is set: oversized files go to cloud storage and
// only the link travels through Telegram.
type Report struct {
	Filename     string
	FileBytes    []byte
	DownloadLink string
}
