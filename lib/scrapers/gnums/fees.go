package gnums

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"bmu-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type FeeDetail struct {
	Semester           string `json:"semester"`
	FeesToBeCollected  string `json:"fees_to_be_collected"`
	SponsorshipAmount  string `json:"sponsorship_amount"`
	ScholarshipAmount  string `json:"scholarship_amount"`
	RefundedAmount     string `json:"refunded_amount"`
	PreviouslyPaid     string `json:"previously_paid"`
	PaidAmount         string `json:"paid_amount"`
	OutstandingAmount  string `json:"outstanding_amount"`
	LateFeeOutstanding string `json:"late_fee_outstanding"`
}

type FeeTotals struct {
	TotalToBeCollected *string `json:"total_to_be_collected"`
	TotalRefunded      *string `json:"total_refunded"`
	TotalPreviousPaid  *string `json:"total_previous_paid"`
	TotalPaid          *string `json:"total_paid"`
	TotalOutstanding   *string `json:"total_outstanding"`
}

type FeeReceipt struct {
	SrNo        string  `json:"sr_no"`
	Date        string  `json:"date"`
	ReceiptNo   string  `json:"receipt_no"`
	Semester    string  `json:"semester"`
	PaymentMode string  `json:"payment_mode"`
	RefNo       string  `json:"ref_no"`
	RefDate     string  `json:"ref_date"`
	RefBank     string  `json:"ref_bank"`
	Amount      string  `json:"amount"`
	ReceiptLink *string `json:"receipt_link"`
}

type FeeTransaction struct {
	SrNo           string            `json:"sr_no"`
	PaymentDate    string            `json:"payment_date"`
	AcademicYear   string            `json:"academic_year"`
	Semester       string            `json:"semester"`
	PaymentMode    string            `json:"payment_mode"`
	TotalAmount    string            `json:"total_amount"`
	Status         string            `json:"status"`
	PaymentDetails map[string]string `json:"payment_details"`
}

type FeeTransactions struct {
	History                []FeeTransaction `json:"history"`
	TotalTransactionAmount *string          `json:"total_transaction_amount"`
}

type FeeData struct {
	FeeDetails []FeeDetail `json:"fee_details"`
	Totals     FeeTotals   `json:"totals"`
}

type FeeHistory struct {
	FeeData      FeeData         `json:"fee_data"`
	Receipts     []FeeReceipt    `json:"receipts"`
	Transactions FeeTransactions `json:"transactions"`
}

func (c *Client) FetchFeeHistory(ctx context.Context, session Session) (FeeHistory, error) {
	ctx, span := tracer.Start(ctx, "client:FetchFeeHistory")
	defer span.End()

	doc, err := c.getAuthedPage(ctx, session, feeHistoryPage, nil)
	if err != nil {
		return FeeHistory{}, err
	}
	return parseFeeHistory(doc), nil
}

func parseFeeHistory(doc *goquery.Document) FeeHistory {
	history := FeeHistory{
		FeeData: FeeData{
			FeeDetails: []FeeDetail{},
			Totals: FeeTotals{
				TotalToBeCollected: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalTobeCollected"),
				TotalRefunded:      htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountRefunded"),
				TotalPreviousPaid:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalPreviousPaidAmount"),
				TotalPaid:          htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalPaidAmount"),
				TotalOutstanding:   htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalPendingAmount"),
			},
		},
		Receipts:     []FeeReceipt{},
		Transactions: FeeTransactions{History: []FeeTransaction{}},
	}

	// fee posting rows nest sub-tables inside cells, only direct
	// children count toward the schema
	doc.Find("div#ctl00_cphPageContent_divFeePosting table.main-table").First().
		Find("tbody").First().ChildrenFiltered("tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := row.ChildrenFiltered("td")
			if cells.Length() < 11 {
				return
			}
			cell := func(i int) string {
				return htmlutil.CleanText(cells.Eq(i).Text())
			}
			history.FeeData.FeeDetails = append(history.FeeData.FeeDetails, FeeDetail{
				Semester:           cell(3),
				FeesToBeCollected:  cell(4),
				SponsorshipAmount:  cell(5),
				ScholarshipAmount:  cell(6),
				RefundedAmount:     cell(7),
				PreviouslyPaid:     cell(8),
				PaidAmount:         cell(9),
				OutstandingAmount:  cell(10),
				LateFeeOutstanding: "0",
			})
		})

	doc.Find("div#ctl00_cphPageContent_divAcademicFeeReceipt table").First().
		Find("tbody tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 10 {
				return
			}
			cell := func(i int) string {
				return htmlutil.CleanText(cells.Eq(i).Text())
			}
			receipt := FeeReceipt{
				SrNo:        cell(0),
				Date:        cell(2),
				ReceiptNo:   cell(3),
				Semester:    cell(4),
				PaymentMode: cell(5),
				RefNo:       cell(6),
				RefDate:     cell(7),
				RefBank:     cell(8),
				Amount:      cell(9),
			}
			if href, ok := cells.Eq(1).Find("a[href]").First().Attr("href"); ok {
				if strings.Contains(href, "javascript:__doPostBack") {
					if target := htmlutil.PostbackTarget(href); target != "" {
						receipt.ReceiptLink = &target
					}
				} else {
					receipt.ReceiptLink = &href
				}
			}
			history.Receipts = append(history.Receipts, receipt)
		})

	txnTable := doc.Find("div#ctl00_cphPageContent_Div_StudentFeePayment table").First()
	if txnTable.Find("tbody").Length() > 0 {
		txnTable.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 9 {
				return
			}
			cell := func(i int) string {
				return htmlutil.CleanText(cells.Eq(i).Text())
			}
			history.Transactions.History = append(history.Transactions.History, FeeTransaction{
				SrNo:           cell(0),
				PaymentDate:    cell(1),
				AcademicYear:   cell(2),
				Semester:       cell(3),
				PaymentMode:    cell(4),
				TotalAmount:    cell(5),
				Status:         cell(6),
				PaymentDetails: splitTransactionDetails(cell(7)),
			})
		})
		history.Transactions.TotalTransactionAmount =
			htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalFeeHeadAmount")
	}

	return history
}

// "Txn ID: X, Bank Ref: Y" -> {"txn_id": "X", "bank_ref": "Y"},
// anything that does not split cleanly is kept raw
func splitTransactionDetails(raw string) map[string]string {
	details := map[string]string{}
	if !strings.Contains(raw, "Txn ID") {
		return details
	}
	flattened := strings.ReplaceAll(raw, "\n", "")
	for _, part := range strings.Split(flattened, ",") {
		key, value, found := strings.Cut(part, ":")
		if !found {
			return map[string]string{"raw": raw}
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		details[key] = strings.TrimSpace(value)
	}
	return details
}

type FeePlanInfo struct {
	FeePlan           *string `json:"fee_plan"`
	FeesTobeCollected *string `json:"fees_tobe_collected"`
	PaidAmount        *string `json:"paid_amount"`
	AcademicYear      *string `json:"academic_year"`
	ScholarshipAmount *string `json:"scholarship_amount"`
	RefundedAmount    *string `json:"refunded_amount"`
	Semester          *string `json:"semester"`
	SponsorshipAmount *string `json:"sponsorship_amount"`
	OutstandingAmount *string `json:"outstanding_amount"`
	FeePlanAmount     *string `json:"fee_plan_amount"`
}

type FeeHead struct {
	SrNo              string `json:"sr_no"`
	FeeHead           string `json:"fee_head"`
	Currency          string `json:"currency"`
	FeePlanAmount     string `json:"fee_plan_amount"`
	FeesTobeCollected string `json:"fees_tobe_collected"`
	SponsorshipAmount string `json:"sponsorship_amount"`
	ScholarshipAmount string `json:"scholarship_amount"`
	RefundedAmount    string `json:"refunded_amount"`
	PreviouslyPaid    string `json:"previously_paid"`
	PaidAmount        string `json:"paid_amount"`
	OutstandingAmount string `json:"outstanding_amount"`
}

type FeePostingTotals struct {
	TotalFeePlanAmount     *string `json:"total_fee_plan_amount"`
	TotalFeesTobeCollected *string `json:"total_fees_tobe_collected"`
	TotalScholarshipAmount *string `json:"total_scholarship_amount"`
	TotalSponsorshipAmount *string `json:"total_sponsorship_amount"`
	TotalPaidAmount        *string `json:"total_paid_amount"`
	TotalRefundedAmount    *string `json:"total_refunded_amount"`
	TotalOutstandingAmount *string `json:"total_outstanding_amount"`
}

type FeePosting struct {
	FeePlanInfo FeePlanInfo      `json:"fee_plan_info"`
	FeeHeads    []FeeHead        `json:"fee_heads"`
	Totals      FeePostingTotals `json:"totals"`
}

func (c *Client) FetchFeePosting(ctx context.Context, session Session, feePostingId string) (FeePosting, error) {
	ctx, span := tracer.Start(ctx, "client:FetchFeePosting")
	defer span.End()

	if feePostingId == "" {
		return FeePosting{}, validationError("Missing 'fee_posting_id'.")
	}

	query := url.Values{"FeePostingID": {feePostingId}}
	doc, err := c.getAuthedPage(ctx, session, feePostingPage, query)
	if err != nil {
		return FeePosting{}, err
	}
	return parseFeePosting(doc), nil
}

func parseFeePosting(doc *goquery.Document) FeePosting {
	posting := FeePosting{
		FeePlanInfo: FeePlanInfo{
			FeePlan:           htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblFeePlanName"),
			FeesTobeCollected: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalTobeCollectedCurrency"),
			PaidAmount:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalPaidCurrency"),
			AcademicYear:      htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAcademicYearID"),
			ScholarshipAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalScholarshipCurrency"),
			RefundedAmount:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalRefundedCurrency"),
			Semester:          htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblSemester"),
			SponsorshipAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalSponsorshipCurrency"),
			OutstandingAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalOutStandingCurrency"),
			FeePlanAmount:     htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblAmountTotalFeePlanCurrency"),
		},
		FeeHeads: []FeeHead{},
		Totals: FeePostingTotals{
			TotalFeePlanAmount:     htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountFeePlanCurrency"),
			TotalFeesTobeCollected: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountTobeCollectedCurrency"),
			TotalScholarshipAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountScholarshipCurrency"),
			TotalSponsorshipAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountSponsorshipCurrency"),
			TotalPaidAmount:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountPaidCurrency"),
			TotalRefundedAmount:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountRefundedCurrency"),
			TotalOutstandingAmount: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAmountOutstandingCurrency"),
		},
	}

	doc.Find("table.table-bordered.table-advanced").First().
		Find("tbody tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.RowCells(row)
			if len(cells) < 9 {
				return
			}
			posting.FeeHeads = append(posting.FeeHeads, FeeHead{
				SrNo:    cells[0],
				FeeHead: cells[1],
				// the posting slice does not render these two columns
				Currency:          "INR",
				FeePlanAmount:     "0",
				FeesTobeCollected: cells[2],
				SponsorshipAmount: cells[3],
				ScholarshipAmount: cells[4],
				RefundedAmount:    cells[5],
				PreviouslyPaid:    cells[6],
				PaidAmount:        cells[7],
				OutstandingAmount: cells[8],
			})
		})

	return posting
}

type ReceiptFile struct {
	Content  []byte `json:"-"`
	Filename string `json:"filename"`
}

// DownloadReceipt replays the receipt link's postback against a fresh
// copy of the fee history page's form state.
func (c *Client) DownloadReceipt(ctx context.Context, session Session, receiptId string) (ReceiptFile, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadReceipt")
	defer span.End()

	if receiptId == "" {
		return ReceiptFile{}, validationError("Missing 'receipt_identifier'.")
	}

	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(feeHistoryPage)
	if err != nil {
		return ReceiptFile{}, externalError("fetch fee history", err)
	}
	if res.StatusCode() != 200 {
		return ReceiptFile{}, externalError("fetch fee history",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return ReceiptFile{}, err
	}

	state := ExtractFormState(doc)
	res, err = http.R().
		SetContext(ctx).
		SetFormData(state.Payload(receiptId, "")).
		Post(feeHistoryPage)
	if err != nil {
		return ReceiptFile{}, externalError("download receipt", err)
	}
	if res.StatusCode() != 200 {
		return ReceiptFile{}, externalError("download receipt",
			fmt.Errorf("status %d", res.StatusCode()))
	}

	filename := "receipt.pdf"
	if cd := res.Header().Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return ReceiptFile{Content: res.Body(), Filename: filename}, nil
}

type PendingFee struct {
	SrNo        string `json:"sr_no"`
	Description string `json:"description"`
	Semester    string `json:"semester"`
	Amount      string `json:"amount"`
}

type PendingFees struct {
	Fees         []PendingFee `json:"fees"`
	TotalPending *string      `json:"total_pending"`
}

func (c *Client) FetchPendingFees(ctx context.Context, session Session) (PendingFees, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPendingFees")
	defer span.End()

	doc, err := c.getAuthedPage(ctx, session, pendingFeesPage, nil)
	if err != nil {
		return PendingFees{}, err
	}
	return parsePendingFees(doc), nil
}

func parsePendingFees(doc *goquery.Document) PendingFees {
	pending := PendingFees{
		Fees:         []PendingFee{},
		TotalPending: htmlutil.OptText(doc, "span[id$='lblTotalPendingAmount']"),
	}
	doc.Find("table.main-table").First().Find("tbody tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.RowCells(row)
			if len(cells) < 4 {
				return
			}
			pending.Fees = append(pending.Fees, PendingFee{
				SrNo:        cells[0],
				Description: cells[1],
				Semester:    cells[2],
				Amount:      cells[3],
			})
		})
	return pending
}

type PaymentInitiation struct {
	RedirectUrl string `json:"redirect_url"`
	Confirmed   bool   `json:"confirmed"`
	Message     string `json:"message"`
}

// InitiatePayment replays the "Pay Now" postback. Success is inferred
// from the final url leaving the pending fees page, the upstream
// gateway offers no stronger signal, so Confirmed stays advisory.
func (c *Client) InitiatePayment(ctx context.Context, session Session) (PaymentInitiation, error) {
	ctx, span := tracer.Start(ctx, "client:InitiatePayment")
	defer span.End()

	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(pendingFeesPage)
	if err != nil {
		return PaymentInitiation{}, externalError("fetch pending fees", err)
	}
	if res.StatusCode() != 200 {
		return PaymentInitiation{}, externalError("fetch pending fees",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return PaymentInitiation{}, err
	}

	target := findPayNowTarget(doc)
	if target == "" {
		return PaymentInitiation{}, validationError("No pending payment found.")
	}

	state := ExtractFormState(doc)
	res, err = http.R().
		SetContext(ctx).
		SetFormData(state.Payload(target, "")).
		Post(pendingFeesPage)
	if err != nil {
		return PaymentInitiation{}, externalError("pay now postback", err)
	}

	landed := finalUrl(res)
	confirmed := !strings.HasSuffix(landed, pendingFeesPage)
	message := "Payment flow initiated."
	if !confirmed {
		message = "Payment initiation could not be confirmed."
	}
	return PaymentInitiation{
		RedirectUrl: landed,
		Confirmed:   confirmed,
		Message:     message,
	}, nil
}

func findPayNowTarget(doc *goquery.Document) string {
	target := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(sel.Text()), "pay now") {
			return true
		}
		target = htmlutil.PostbackTarget(sel.AttrOr("href", ""))
		return target == ""
	})
	if target != "" {
		return target
	}
	doc.Find("input[type=submit],input[type=button]").
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(sel.AttrOr("value", "")), "pay now") {
				return true
			}
			target = sel.AttrOr("name", "")
			return target == ""
		})
	return target
}
