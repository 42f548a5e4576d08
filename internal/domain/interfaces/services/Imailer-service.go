package Iservices

// IMailer sends the filled form PDF to the configured recipient.
type IMailer interface {
	SendPDF(pdfPath string) error
}
