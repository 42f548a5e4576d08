package dto

// PDFResponse carries the rendered form for the show action of
// GET /api/get-pdf.
type PDFResponse struct {
	Status      string `json:"status"`
	PDFData     string `json:"pdf_data"`
	PDFFilename string `json:"pdf_filename"`
}

// EmailResult reports the outcome of the send action.
type EmailResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}
