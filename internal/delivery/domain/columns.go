package domain

// Kind tells whether a column is stored as a number or as text.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

// Column binds a backend column to its spreadsheet header and to the
// Record field holding it.
type Column struct {
	Wire    string
	Display string
	Kind    Kind

	text   func(*Record) *string
	number func(*Record) **float64
}

func textColumn(wire, display string, field func(*Record) *string) Column {
	return Column{Wire: wire, Display: display, Kind: KindText, text: field}
}

func numericColumn(wire, display string, field func(*Record) **float64) Column {
	return Column{Wire: wire, Display: display, Kind: KindNumeric, number: field}
}

// Columns lists every delivery_records column in backend order.
var Columns = []Column{
	numericColumn("iom_no", "IOM NO.", func(r *Record) **float64 { return &r.IOMNo }),
	textColumn("ref_iom_fab_iom", "Ref. IOM/ Fab. IOM", func(r *Record) *string { return &r.RefIOMFabIOM }),
	textColumn("buyer", "BUYER", func(r *Record) *string { return &r.Buyer }),
	textColumn("garments", "GARMENTS", func(r *Record) *string { return &r.Garments }),
	textColumn("fabric_composition", "FABRIC COMPOSITION", func(r *Record) *string { return &r.FabricComposition }),
	textColumn("construction", "CONSTRUCTION", func(r *Record) *string { return &r.Construction }),
	textColumn("weave", "WEAVE", func(r *Record) *string { return &r.Weave }),
	textColumn("blend_non_blend", "Blend/Non Blend", func(r *Record) *string { return &r.BlendNonBlend }),
	numericColumn("finish_gsm", "FINISH GSM", func(r *Record) **float64 { return &r.FinishGSM }),
	numericColumn("greige_width", "GREIGE WIDTH", func(r *Record) **float64 { return &r.GreigeWidth }),
	numericColumn("finish_width", "FINISH WIDTH", func(r *Record) **float64 { return &r.FinishWidth }),
	textColumn("color", "COLOR", func(r *Record) *string { return &r.Color }),
	numericColumn("order_qty_yds", "ORDER QTY. (YDS)", func(r *Record) **float64 { return &r.OrderQtyYds }),
	textColumn("emerizing", "EMERIZING", func(r *Record) *string { return &r.Emerizing }),
	textColumn("emerizing_mc_name", "EMERIZING MC Name", func(r *Record) *string { return &r.EmerizingMCName }),
	textColumn("finish", "Finish", func(r *Record) *string { return &r.Finish }),
	textColumn("process_route", "PROCESS ROUTE", func(r *Record) *string { return &r.ProcessRoute }),
	textColumn("development_type", "Development Type", func(r *Record) *string { return &r.DevelopmentType }),
	textColumn("user_name", "USER NAME", func(r *Record) *string { return &r.UserName }),
	textColumn("iom_creation_date", "IOM Creation Date", func(r *Record) *string { return &r.IOMCreationDate }),
	textColumn("weaving_iom_recv_date", "Weaving IOM recv.Date", func(r *Record) *string { return &r.WeavingIOMRecvDate }),
	textColumn("proposed_greige_rcv_date", "Proposed Greige rcv Date", func(r *Record) *string { return &r.ProposedGreigeRcvDate }),
	textColumn("finished_s_y_ready_date_tentative", "FINISHED S/Y Ready Date (Tentative)", func(r *Record) *string { return &r.FinishedSYReadyDateTentative }),
	textColumn("actual_grey_issue_date", "Actual GREY ISSUE DATE", func(r *Record) *string { return &r.ActualGreyIssueDate }),
	textColumn("otp_iom_cration_to_delivery", "OTP IOM cration To Delivery", func(r *Record) *string { return &r.OTPIOMCrationToDelivery }),
	textColumn("otp_weaving", "OTP WEAVING", func(r *Record) *string { return &r.OTPWeaving }),
	numericColumn("grey_rcvd_yds", "GREY RCVD. (YDS)", func(r *Record) **float64 { return &r.GreyRcvdYds }),
	textColumn("department", "DEPARTMENT", func(r *Record) *string { return &r.Department }),
	textColumn("stage_1", "Stage-1", func(r *Record) *string { return &r.Stage1 }),
	textColumn("stage_2", "Stage-2", func(r *Record) *string { return &r.Stage2 }),
	textColumn("grey_hold", "Grey Hold", func(r *Record) *string { return &r.GreyHold }),
	textColumn("actual_sample_ready_date", "ACTUAL SAMPLE READY DATE", func(r *Record) *string { return &r.ActualSampleReadyDate }),
	textColumn("process_otp", "PROCESS OTP", func(r *Record) *string { return &r.ProcessOTP }),
	textColumn("greige_source", "Greige Source", func(r *Record) *string { return &r.GreigeSource }),
	textColumn("floor", "Floor", func(r *Record) *string { return &r.Floor }),
	textColumn("lead_time_iom_creation_to_dispatch", "Lead time (IOM Creation to Dispatch)", func(r *Record) *string { return &r.LeadTimeIOMCreationToDispatch }),
	textColumn("singeing_desize_process_date", "Singeing/Desize/Process date", func(r *Record) *string { return &r.SingeingDesizeProcessDate }),
	numericColumn("singeing_qty", "Singeing QTY", func(r *Record) **float64 { return &r.SingeingQty }),
	textColumn("bleach", "Bleach", func(r *Record) *string { return &r.Bleach }),
	textColumn("mercerized", "Mercerized", func(r *Record) *string { return &r.Mercerized }),
	textColumn("peach", "Peach", func(r *Record) *string { return &r.Peach }),
	numericColumn("ptr_days", "ptr days", func(r *Record) **float64 { return &r.PtrDays }),
	textColumn("dye_lab_in", "Dye Lab in", func(r *Record) *string { return &r.DyeLabIn }),
	textColumn("dye_lab_out", "Dye Lab Out", func(r *Record) *string { return &r.DyeLabOut }),
	numericColumn("dye_lab_days", "Dye Lab Days", func(r *Record) **float64 { return &r.DyeLabDays }),
	textColumn("dyeing_in_date", "Dyeing In date", func(r *Record) *string { return &r.DyeingInDate }),
	textColumn("dyeing_floor", "Dyeing Floor", func(r *Record) *string { return &r.DyeingFloor }),
	textColumn("dye_mc_name", "Dye MC Name", func(r *Record) *string { return &r.DyeMCName }),
	numericColumn("dyeing_qty", "Dyeing Qty", func(r *Record) **float64 { return &r.DyeingQty }),
	textColumn("topping_1", "Topping-1", func(r *Record) *string { return &r.Topping1 }),
	textColumn("topping_2", "Topping-2", func(r *Record) *string { return &r.Topping2 }),
	textColumn("topping_3", "Topping-3", func(r *Record) *string { return &r.Topping3 }),
	textColumn("topping_4", "Topping-4", func(r *Record) *string { return &r.Topping4 }),
	textColumn("dyeing_out_date", "Dyeing Out date", func(r *Record) *string { return &r.DyeingOutDate }),
	numericColumn("dyeing_days", "Dyeing Days", func(r *Record) **float64 { return &r.DyeingDays }),
	textColumn("print_in_date", "Print in Date", func(r *Record) *string { return &r.PrintInDate }),
	numericColumn("print_qty", "Print Qty", func(r *Record) **float64 { return &r.PrintQty }),
	textColumn("print_out_date", "Print Out Date", func(r *Record) *string { return &r.PrintOutDate }),
	numericColumn("print_days", "Print Days", func(r *Record) **float64 { return &r.PrintDays }),
	textColumn("finish_date", "Finish Date", func(r *Record) *string { return &r.FinishDate }),
	textColumn("delivery_date", "DELIVERY DATE", func(r *Record) *string { return &r.DeliveryDate }),
	numericColumn("delivery_qty_yds", "DELIVERY QTY. (YDS)", func(r *Record) **float64 { return &r.DeliveryQtyYds }),
	numericColumn("before_ins_mkt_rcvd_qty_yds", "BEFORE INS. MKT RCVD. QTY (YDS)", func(r *Record) **float64 { return &r.BeforeInsMktRcvdQtyYds }),
	textColumn("mcp_folder_status", "MCP Folder Status", func(r *Record) *string { return &r.MCPFolderStatus }),
	textColumn("remarks", "Remarks", func(r *Record) *string { return &r.Remarks }),
}

// System columns assigned by the backend. They are never sent on insert.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
)

var (
	columnsByWire    = make(map[string]Column, len(Columns))
	columnsByDisplay = make(map[string]Column, len(Columns))
)

func init() {
	for _, col := range Columns {
		columnsByWire[col.Wire] = col
		columnsByDisplay[col.Display] = col
	}
}

// ColumnByWire looks up a column by backend name.
func ColumnByWire(wire string) (Column, bool) {
	col, ok := columnsByWire[wire]
	return col, ok
}

// ColumnByDisplay looks up a column by spreadsheet header.
func ColumnByDisplay(display string) (Column, bool) {
	col, ok := columnsByDisplay[display]
	return col, ok
}

// IsNumeric reports whether the wire key names a numeric column.
func IsNumeric(wire string) bool {
	col, ok := columnsByWire[wire]
	return ok && col.Kind == KindNumeric
}
