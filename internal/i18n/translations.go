package i18n

// UI strings served to the client, keyed by a closed set of constants so a
// missing translation is a compile/test failure, not a runtime blank.

type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"
)

type Key string

const (
	KeyDashboard       Key = "dashboard"
	KeyBilling         Key = "billing"
	KeyInventory       Key = "inventory"
	KeyCustomers       Key = "customers"
	KeyStaff           Key = "staff"
	KeyReports         Key = "reports"
	KeySettings        Key = "settings"
	KeyNewBill         Key = "new_bill"
	KeyAddItem         Key = "add_item"
	KeyAddCustomer     Key = "add_customer"
	KeyInvoiceNumber   Key = "invoice_number"
	KeySubtotal        Key = "subtotal"
	KeyDiscount        Key = "discount"
	KeyTax             Key = "tax"
	KeyGrandTotal      Key = "grand_total"
	KeyAmountPaid      Key = "amount_paid"
	KeyAmountDue       Key = "amount_due"
	KeyPaymentMode     Key = "payment_mode"
	KeyDemoLimitHit    Key = "demo_limit_hit"
	KeyUpgradePlan     Key = "upgrade_plan"
	KeyImportBill      Key = "import_bill"
	KeyAskAssistant    Key = "ask_assistant"
	KeyMarkAttendance  Key = "mark_attendance"
	KeyThankYou        Key = "thank_you"
)

type entry struct {
	EN string
	HI string
}

var table = map[Key]entry{
	KeyDashboard:      {EN: "Dashboard", HI: "डैशबोर्ड"},
	KeyBilling:        {EN: "Billing", HI: "बिलिंग"},
	KeyInventory:      {EN: "Inventory", HI: "इन्वेंटरी"},
	KeyCustomers:      {EN: "Customers", HI: "ग्राहक"},
	KeyStaff:          {EN: "Staff", HI: "स्टाफ"},
	KeyReports:        {EN: "Reports", HI: "रिपोर्ट"},
	KeySettings:       {EN: "Settings", HI: "सेटिंग्स"},
	KeyNewBill:        {EN: "New Bill", HI: "नया बिल"},
	KeyAddItem:        {EN: "Add Item", HI: "आइटम जोड़ें"},
	KeyAddCustomer:    {EN: "Add Customer", HI: "ग्राहक जोड़ें"},
	KeyInvoiceNumber:  {EN: "Invoice No.", HI: "बिल नंबर"},
	KeySubtotal:       {EN: "Subtotal", HI: "उप-योग"},
	KeyDiscount:       {EN: "Discount", HI: "छूट"},
	KeyTax:            {EN: "Tax (incl.)", HI: "कर (सम्मिलित)"},
	KeyGrandTotal:     {EN: "Grand Total", HI: "कुल योग"},
	KeyAmountPaid:     {EN: "Paid", HI: "भुगतान"},
	KeyAmountDue:      {EN: "Due", HI: "बकाया"},
	KeyPaymentMode:    {EN: "Payment Mode", HI: "भुगतान का तरीका"},
	KeyDemoLimitHit:   {EN: "Free limit reached. Upgrade to continue.", HI: "मुफ़्त सीमा समाप्त। जारी रखने के लिए अपग्रेड करें।"},
	KeyUpgradePlan:    {EN: "Upgrade Plan", HI: "प्लान अपग्रेड करें"},
	KeyImportBill:     {EN: "Import Bill", HI: "बिल आयात करें"},
	KeyAskAssistant:   {EN: "Ask Assistant", HI: "सहायक से पूछें"},
	KeyMarkAttendance: {EN: "Mark Attendance", HI: "उपस्थिति दर्ज करें"},
	KeyThankYou:       {EN: "Thank you for your business!", HI: "आपके व्यवसाय के लिए धन्यवाद!"},
}

// T looks up a key in the requested language, falling back to English.
// An unknown key returns the key text itself so the UI shows something.
func T(key Key, lang Lang) string {
	e, ok := table[key]
	if !ok {
		return string(key)
	}
	if lang == Hindi && e.HI != "" {
		return e.HI
	}
	return e.EN
}

// Keys returns the closed key set, mostly for tests and the client's
// bootstrap payload.
func Keys() []Key {
	out := make([]Key, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}

// All returns the whole table for one language, for the client to cache.
func All(lang Lang) map[Key]string {
	out := make(map[Key]string, len(table))
	for k := range table {
		out[k] = T(k, lang)
	}
	return out
}
