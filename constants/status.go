package constants

// Regularization is the derived status comparing the ART date with the prior report date.
type Regularization string

// Stable values, exported verbatim to the workbook.
const (
	RegularizationYes Regularization = "SIM"
	RegularizationNo  Regularization = "NÃO"
)

// DocumentStatus is the per-document outcome inside a batch.
type DocumentStatus string

const (
	DocumentStatusExtracted  DocumentStatus = "EXTRACTED"
	DocumentStatusUnreadable DocumentStatus = "UNREADABLE" // terminal: the document could not be opened
	DocumentStatusFailed     DocumentStatus = "FAILED"     // timeout or cancellation
)
