package domain

// WireRow is a row keyed by backend column names (snake_case).
type WireRow map[string]any

// DisplayRow is a row keyed by spreadsheet headers, as produced by imports.
type DisplayRow map[string]any

// Record is one IOM delivery record. Numeric columns are nil when the
// source value was empty or not a number; text columns are never nil.
type Record struct {
	ID        int64  `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`

	IOMNo             *float64 `json:"iom_no"`
	RefIOMFabIOM      string   `json:"ref_iom_fab_iom"`
	Buyer             string   `json:"buyer"`
	Garments          string   `json:"garments"`
	FabricComposition string   `json:"fabric_composition"`
	Construction      string   `json:"construction"`
	Weave             string   `json:"weave"`
	BlendNonBlend     string   `json:"blend_non_blend"`
	FinishGSM         *float64 `json:"finish_gsm"`
	GreigeWidth       *float64 `json:"greige_width"`
	FinishWidth       *float64 `json:"finish_width"`
	Color             string   `json:"color"`
	OrderQtyYds       *float64 `json:"order_qty_yds"`
	Emerizing         string   `json:"emerizing"`
	EmerizingMCName   string   `json:"emerizing_mc_name"`
	Finish            string   `json:"finish"`
	ProcessRoute      string   `json:"process_route"`
	DevelopmentType   string   `json:"development_type"`
	UserName          string   `json:"user_name"`

	IOMCreationDate               string   `json:"iom_creation_date"`
	WeavingIOMRecvDate            string   `json:"weaving_iom_recv_date"`
	ProposedGreigeRcvDate         string   `json:"proposed_greige_rcv_date"`
	FinishedSYReadyDateTentative  string   `json:"finished_s_y_ready_date_tentative"`
	ActualGreyIssueDate           string   `json:"actual_grey_issue_date"`
	OTPIOMCrationToDelivery       string   `json:"otp_iom_cration_to_delivery"`
	OTPWeaving                    string   `json:"otp_weaving"`
	GreyRcvdYds                   *float64 `json:"grey_rcvd_yds"`
	Department                    string   `json:"department"`
	Stage1                        string   `json:"stage_1"`
	Stage2                        string   `json:"stage_2"`
	GreyHold                      string   `json:"grey_hold"`
	ActualSampleReadyDate         string   `json:"actual_sample_ready_date"`
	ProcessOTP                    string   `json:"process_otp"`
	GreigeSource                  string   `json:"greige_source"`
	Floor                         string   `json:"floor"`
	LeadTimeIOMCreationToDispatch string   `json:"lead_time_iom_creation_to_dispatch"`

	SingeingDesizeProcessDate string   `json:"singeing_desize_process_date"`
	SingeingQty               *float64 `json:"singeing_qty"`
	Bleach                    string   `json:"bleach"`
	Mercerized                string   `json:"mercerized"`
	Peach                     string   `json:"peach"`
	PtrDays                   *float64 `json:"ptr_days"`
	DyeLabIn                  string   `json:"dye_lab_in"`
	DyeLabOut                 string   `json:"dye_lab_out"`
	DyeLabDays                *float64 `json:"dye_lab_days"`
	DyeingInDate              string   `json:"dyeing_in_date"`
	DyeingFloor               string   `json:"dyeing_floor"`
	DyeMCName                 string   `json:"dye_mc_name"`
	DyeingQty                 *float64 `json:"dyeing_qty"`
	Topping1                  string   `json:"topping_1"`
	Topping2                  string   `json:"topping_2"`
	Topping3                  string   `json:"topping_3"`
	Topping4                  string   `json:"topping_4"`
	DyeingOutDate             string   `json:"dyeing_out_date"`
	DyeingDays                *float64 `json:"dyeing_days"`
	PrintInDate               string   `json:"print_in_date"`
	PrintQty                  *float64 `json:"print_qty"`
	PrintOutDate              string   `json:"print_out_date"`
	PrintDays                 *float64 `json:"print_days"`

	FinishDate             string   `json:"finish_date"`
	DeliveryDate           string   `json:"delivery_date"`
	DeliveryQtyYds         *float64 `json:"delivery_qty_yds"`
	BeforeInsMktRcvdQtyYds *float64 `json:"before_ins_mkt_rcvd_qty_yds"`
	MCPFolderStatus        string   `json:"mcp_folder_status"`
	Remarks                string   `json:"remarks"`

	// Extra holds columns the table does not know about, keyed as received.
	Extra map[string]any `json:"-"`
}
