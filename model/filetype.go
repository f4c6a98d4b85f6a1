package model

// Profile identifies which extraction pipeline the service should run for a
// given document kind. The concrete deployment id for each profile comes from
// configuration.
type Profile string

const (
	ProfilePDF         Profile = "pdf"
	ProfileTXT         Profile = "txt"
	ProfileSpreadsheet Profile = "spreadsheet"
)

// ProfileForFileType maps an upload fileType to its extraction profile.
// Legal documents reuse the PDF pipeline.
func ProfileForFileType(fileType string) (Profile, bool) {
	switch fileType {
	case "pitch-pdf":
		return ProfilePDF, true
	case "pitch-txt":
		return ProfileTXT, true
	case "pl-xlsx", "pl-xls", "pl-csv":
		return ProfileSpreadsheet, true
	case "SHAREHOLDERS_AGREEMENT", "ARTICLES_OF_ASSOCIATION", "INVESTMENT_AGREEMENT":
		return ProfilePDF, true
	default:
		return "", false
	}
}
