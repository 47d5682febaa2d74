package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type orderConfirmationData struct {
	CompanyName   string
	InvoiceNumber string
	Total         string
	LeadCount     int
}
