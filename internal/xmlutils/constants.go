package xmlutils

// MessageDefinition ties an ISO 20022 message type to the element that
// follows <Document> in its instances.
type MessageDefinition struct {
	Type        string
	RootElement string
	Description string
}

// KnownMessages lists the message types Inspect recognizes, in the order
// they are tried.
var KnownMessages = []MessageDefinition{
	{Type: "pacs.008", RootElement: "FIToFICstmrCdtTrf", Description: "FI to FI customer credit transfer"},
	{Type: "pacs.002", RootElement: "FIToFIPmtStsRpt", Description: "FI to FI payment status report"},
	{Type: "pacs.004", RootElement: "PmtRtr", Description: "Payment return"},
	{Type: "pacs.009", RootElement: "FICdtTrf", Description: "Financial institution credit transfer"},
	{Type: "pain.001", RootElement: "CstmrCdtTrfInitn", Description: "Customer credit transfer initiation"},
	{Type: "camt.052", RootElement: "BkToCstmrAcctRpt", Description: "Bank to customer account report"},
	{Type: "camt.053", RootElement: "BkToCstmrStmt", Description: "Bank to customer statement"},
	{Type: "camt.054", RootElement: "BkToCstmrDbtCdtNtfctn", Description: "Bank to customer debit credit notification"},
}

// Group header XPath expressions, relative to the message element.
const (
	XPathMessageID        = "GrpHdr/MsgId"
	XPathCreationDateTime = "GrpHdr/CreDtTm"
	XPathNumberOfTxs      = "GrpHdr/NbOfTxs"
	XPathSettlementMethod = "GrpHdr/SttlmInf/SttlmMtd"
)
