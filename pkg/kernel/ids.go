package kernel

type MessageID string

func NewMessageID(id string) MessageID { return MessageID(id) }
func (m MessageID) String() string     { return string(m) }
func (m MessageID) IsEmpty() bool      { return string(m) == "" }

type InvoiceID string

func NewInvoiceID(id string) InvoiceID { return InvoiceID(id) }
func (i InvoiceID) String() string     { return string(i) }
func (i InvoiceID) IsEmpty() bool      { return string(i) == "" }
