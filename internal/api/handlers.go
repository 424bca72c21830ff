package api

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fxreader/internal/export"
	"fxreader/internal/ratetable"
	"fxreader/internal/service"
)

// Response headers carrying the query outcome for non-JSON formats.
const (
	HeaderQueryStatus  = "X-Query-Status"
	HeaderQueryMessage = "X-Query-Message"
)

// RateRow is one dated row of a rates response.
type RateRow struct {
	Date   string                `json:"date" example:"2024-01-02"`
	Values []decimal.NullDecimal `json:"values" swaggertype:"array,string" example:"1.3316,0.9012"`
}

// RatesResponse represents the response for a rate query
type RatesResponse struct {
	Status     string    `json:"status" example:"Success"`
	StatusCode int       `json:"status_code" example:"1"`
	Message    string    `json:"message" example:"Query Successful"`
	Filter     string    `json:"filter" example:"tail_rows"`
	Columns    []string  `json:"columns" example:"AUDCAD,INRCAD"`
	Rows       []RateRow `json:"rows"`
}

func newRatesResponse(res *service.QueryResult) RatesResponse {
	rows := res.Table.Rows()
	out := make([]RateRow, len(rows))
	for i, r := range rows {
		out[i] = RateRow{Date: r.Date.Format(ratetable.DateLayout), Values: r.Values}
	}
	return RatesResponse{
		Status:     res.Status.String(),
		StatusCode: res.Status.Code(),
		Message:    res.Message,
		Filter:     string(res.Filter),
		Columns:    res.Table.Columns(),
		Rows:       out,
	}
}

// ParseQueryParams maps URL query values to query parameters. Date bounds are
// passed through unvalidated; head and tail counts that are not numbers are ignored.
func ParseQueryParams(q url.Values) service.QueryParams {
	p := service.QueryParams{
		Source:   q.Get("source"),
		Provider: q.Get("provider"),
		Kind:     q.Get("kind"),
		Pairs:    parsePairs(q["pairs"]),
		AllDates: q.Get("all_dates") == "Yes",
		HeadRows: parseCount(q, "head_rows"),
		TailRows: parseCount(q, "tail_rows"),
	}
	if q.Has("start_date") {
		v := q.Get("start_date")
		p.StartDate = &v
	}
	if q.Has("end_date") {
		v := q.Get("end_date")
		p.EndDate = &v
	}
	return p
}

func parseCount(q url.Values, key string) *float64 {
	if !q.Has(key) {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
	if err != nil {
		return nil
	}
	return &n
}

func parsePairs(values []string) service.PairSelector {
	var codes []string
	for _, v := range values {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, c)
			}
		}
	}
	if len(codes) == 0 || (len(codes) == 1 && strings.EqualFold(codes[0], "All")) {
		return service.AllPairs()
	}
	return service.SpecificPairs(codes...)
}

// HandleGetRates godoc
// @Summary Query FX rates
// @Description Fetches the rate table of a source and applies exactly one row filter, chosen in the order all_dates, head_rows, tail_rows, start/end dates. The outcome is reported in status_code; the HTTP status is 200 for every completed query.
// @Tags rates
// @Produce json
// @Produce text/csv
// @Produce application/vnd.apache.parquet
// @Param source query string true "Database holding the table" example(googleSheets)
// @Param provider query string true "Rate publisher" example(BoC)
// @Param kind query string true "Rate type" example(spot)
// @Param pairs query string false "Comma-separated currency pairs, or All" example(AUDCAD,INRCAD)
// @Param start_date query string false "First date, YYYY-MM-DD" format(date)
// @Param end_date query string false "Last date, YYYY-MM-DD" format(date)
// @Param all_dates query string false "Yes returns every row" Enums(Yes)
// @Param head_rows query number false "Number of rows from the top"
// @Param tail_rows query number false "Number of rows from the bottom"
// @Param format query string false "Response format" Enums(json, csv, parquet) default(json)
// @Success 200 {object} RatesResponse "Query completed"
// @Failure 400 {object} ErrorResponse "Unsupported format"
// @Router /rates [get]
func HandleGetRates(svc service.RateFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format := strings.ToLower(q.Get("format"))
		switch format {
		case "", "json", "csv", "parquet":
		default:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unsupported format " + format})
			return
		}

		res := svc.FetchRates(r.Context(), ParseQueryParams(q))

		switch format {
		case "csv":
			writeTable(w, res, "text/csv", "rates.csv", ratetable.WriteCSV)
		case "parquet":
			writeTable(w, res, "application/vnd.apache.parquet", "rates.parquet", export.WriteParquet)
		default:
			writeJSON(w, http.StatusOK, newRatesResponse(res))
		}
	}
}

type tableEncoder func(w io.Writer, tbl *ratetable.Table) error

// writeTable encodes into a buffer first so encoding errors can still produce a 500.
func writeTable(w http.ResponseWriter, res *service.QueryResult, contentType, filename string, encode tableEncoder) {
	var buf bytes.Buffer
	if err := encode(&buf, res.Table); err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set(HeaderQueryStatus, strconv.Itoa(res.Status.Code()))
	w.Header().Set(HeaderQueryMessage, res.Message)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
