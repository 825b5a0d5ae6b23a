package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InquiryStatus string

const (
	StatusPending     InquiryStatus = "PENDING"
	StatusNegotiating InquiryStatus = "NEGOTIATING"
	StatusAccepted    InquiryStatus = "ACCEPTED"
	StatusRejected    InquiryStatus = "REJECTED"
	StatusExpired     InquiryStatus = "EXPIRED"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusNegotiating, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}

	return false
}

// Open reports whether parties may still bargain: PENDING or NEGOTIATING.
func (s InquiryStatus) Open() bool {
	return s == StatusPending || s == StatusNegotiating
}

func (s InquiryStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Party string

const (
	Buyer    Party = "BUYER"
	Supplier Party = "SUPPLIER"
	// System authors entries nobody asked for, i.e. a lapsed deadline.
	System Party = "SYSTEM"
)

func (p Party) Counterparty() Party {
	switch p {
	case Buyer:
		return Supplier
	case Supplier:
		return Buyer
	}

	return ""
}

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
)

// Offer is a price/quantity pair. Price is per unit.
type Offer struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

func (o Offer) Equal(other Offer) bool {
	return o.Quantity == other.Quantity && o.Price.Equal(other.Price)
}

func (o Offer) Total() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.Quantity))
}

// db model
type Inquiry struct {
	Id         uuid.UUID     `db:"id"`
	BuyerId    uuid.UUID     `db:"buyer_id"`
	SupplierId uuid.UUID     `db:"supplier_id"`
	GigId      uuid.UUID     `db:"gig_id"`
	Status     InquiryStatus `db:"status"`
	Round      int           `db:"round"`
	Seq        int           `db:"seq"`
	Requested  Offer
	Proposed   *Offer
	Agreed     *Offer
	LastActor  Party      `db:"last_actor"`
	Message    string     `db:"message"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	RespondBy  time.Time  `db:"respond_by"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

// Terms returns the offer currently on the table: the latest counter-offer,
// or the buyer's original ask if nobody has countered yet.
func (i *Inquiry) Terms() Offer {
	if i.Proposed != nil {
		return *i.Proposed
	}

	return i.Requested
}

// PartyOf tells which side of the inquiry userId is on.
func (i *Inquiry) PartyOf(userId uuid.UUID) (Party, bool) {
	switch userId {
	case i.BuyerId:
		return Buyer, true
	case i.SupplierId:
		return Supplier, true
	}

	return "", false
}

func (i *Inquiry) Deleted() bool {
	return i.DeletedAt != nil
}

func (i *Inquiry) Clone() Inquiry {
	c := *i
	if i.Proposed != nil {
		p := *i.Proposed
		c.Proposed = &p
	}
	if i.Agreed != nil {
		a := *i.Agreed
		c.Agreed = &a
	}
	if i.DeletedAt != nil {
		d := *i.DeletedAt
		c.DeletedAt = &d
	}

	return c
}

// service input model
type CreateInquiryInput struct {
	BuyerId  string          // given
	GigId    string          // given
	Price    decimal.Decimal // given, per unit
	Quantity decimal.Decimal // given, must be integral
	Message  string          // given
}

type CounterInput struct {
	InquiryId string
	ActorId   string
	Round     int
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Message   string
}

// repo input model
type InquiryFilter struct {
	UserId uuid.UUID
	Role   Role
	Status InquiryStatus // optional
	// Now decides which open inquiries count as lapsed when filtering by
	// status.
	Now time.Time
}

type ListInquiriesInput struct {
	UserId string
	Role   Role
	Status InquiryStatus // optional
	Page   *PaginationInput
}

// controller model
type InquiryOutputModel struct {
	Id                string  `json:"id"`
	BuyerId           string  `json:"buyerId"`
	SupplierId        string  `json:"supplierId"`
	GigId             string  `json:"gigId"`
	GigTitle          string  `json:"gigTitle,omitempty"`
	Status            string  `json:"status"`
	Round             int     `json:"round"`
	RequestedPrice    string  `json:"requestedPrice"`
	RequestedQuantity int64   `json:"requestedQuantity"`
	ProposedPrice     *string `json:"proposedPrice"`
	ProposedQuantity  *int64  `json:"proposedQuantity"`
	AgreedPrice       *string `json:"agreedPrice,omitempty"`
	AgreedQuantity    *int64  `json:"agreedQuantity,omitempty"`
	AgreedTotal       *string `json:"agreedTotal,omitempty"`
	LastActor         string  `json:"lastActor"`
	Turn              string  `json:"turn,omitempty"`
	Message           string  `json:"message"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
	RespondByDeadline string  `json:"respondByDeadline"`
	RemainingSeconds  int64   `json:"remainingSeconds"`
}

type NegotiationOutputModel struct {
	Inquiry     *InquiryOutputModel      `json:"inquiry"`
	LatestEntry *HistoryEntryOutputModel `json:"latestEntry"`
}
