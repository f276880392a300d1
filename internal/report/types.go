package report

import "time"

// Customer is a read-only projection of a customers row. Phone is the weak
// join key toward reservations and sales; nothing enforces it.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Memo      string
	CreatedAt time.Time
}

// Reservation statuses as stored. An empty status means confirmed.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

type Reservation struct {
	ID        int64
	Name      string
	Phone     string
	Datetime  time.Time
	People    int
	Memo      string
	Status    string
	CreatedAt time.Time
}

// MenuLine is one entry of a sale's menu_items payload. A malformed payload
// yields a nil slice on the Sale; the sale still counts toward revenue sums.
type MenuLine struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Sale keeps the stored total as-is; per-item revenue is re-derived from
// MenuItems for ranking only, never to correct Total.
type Sale struct {
	ID            int64
	MenuItems     []MenuLine
	Total         float64
	PaymentMethod string
	CreatedAt     time.Time
}

// Bucket names one reporting period. Key is the canonical identifier
// ("2006-01" for months, "2006-01-02" for days), Label the display form.
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TimeRange bounds a record fetch. A zero From or To leaves that side open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type MonthlyTotal struct {
	Month string  `json:"month"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type ItemTotal struct {
	Item  string  `json:"item"`
	Total float64 `json:"total"`
}

type MethodTotal struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
}

type VisitorRatio struct {
	New    int `json:"new"`
	Repeat int `json:"repeat"`
}

type StatusCounts struct {
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"noshow"`
}

// Report is the full dashboard snapshot. It is rebuilt from scratch on every
// invocation and never written back to the store.
//
// MonthlySeries is dense: always exactly the requested window of months, gap
// free and chronological. WeeklySeries and PaymentRatio are sparse: periods
// and methods without observed records are absent.
type Report struct {
	TodayReservationCount int            `json:"todayReservationCount"`
	TotalCustomers        int            `json:"totalCustomers"`
	TodaySalesTotal       float64        `json:"todaySalesTotal"`
	WeeklySeries          []DailyTotal   `json:"weeklySeries"`
	MonthlySeries         []MonthlyTotal `json:"monthlySeries"`
	TopMenu               []ItemTotal    `json:"topMenu"`
	PaymentRatio          []MethodTotal  `json:"paymentRatio"`
	VisitorRatio          VisitorRatio   `json:"visitorRatio"`
	StatusRatio           StatusCounts   `json:"statusRatio"`
}
