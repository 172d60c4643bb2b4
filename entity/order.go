// Package entity defines data models for the Redsys order payment service.
package entity

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusCanceled = "canceled"
	StateCanceled  = "canceled"
)

// Order is a storefront order as read from the order store.
// A single Order value is treated as a snapshot: derived payment fields are computed from it
// without re-reading the store.
type Order struct {
	EntityId          string          `json:"entity_id" bson:"entity_id"`
	IncrementId       string          `json:"increment_id" bson:"increment_id"`
	StoreId           string          `json:"store_id" bson:"store_id"`
	Status            string          `json:"status" bson:"status"`
	State             string          `json:"state" bson:"state"`
	GrandTotal        *float64        `json:"grand_total,omitempty" bson:"grand_total,omitempty"`
	Currency          string          `json:"currency" bson:"currency"`
	CustomerFirstname string          `json:"customer_firstname" bson:"customer_firstname"`
	CustomerLastname  string          `json:"customer_lastname" bson:"customer_lastname"`
	CustomerEmail     string          `json:"customer_email" bson:"customer_email"`
	Items             []OrderItem     `json:"items" bson:"items"`
	BillingAddress    *Address        `json:"billing_address,omitempty" bson:"billing_address,omitempty"`
	ShippingAddress   *Address        `json:"shipping_address,omitempty" bson:"shipping_address,omitempty"`
	Payment           *Payment        `json:"payment,omitempty" bson:"payment,omitempty"`
	StatusHistory     []StatusHistory `json:"status_history" bson:"status_history"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}

type OrderItem struct {
	ItemId       string  `json:"item_id" bson:"item_id"`
	ParentItemId string  `json:"parent_item_id,omitempty" bson:"parent_item_id,omitempty"`
	Sku          string  `json:"sku" bson:"sku"`
	Name         string  `json:"name" bson:"name"`
	QtyOrdered   float64 `json:"qty_ordered" bson:"qty_ordered"`
	QtyInvoiced  float64 `json:"qty_invoiced" bson:"qty_invoiced"`
	QtyCanceled  float64 `json:"qty_canceled" bson:"qty_canceled"`
}

// QtyToInvoice returns the quantity still open for invoicing.
func (i *OrderItem) QtyToInvoice() float64 {
	qty := i.QtyOrdered - i.QtyInvoiced - i.QtyCanceled
	if qty < 0 {
		return 0
	}
	return qty
}

type Address struct {
	Street    []string `json:"street" bson:"street"`
	City      string   `json:"city" bson:"city"`
	Postcode  string   `json:"postcode" bson:"postcode"`
	CountryId string   `json:"country_id" bson:"country_id"`
}

// StreetLine returns the n-th street line (0-based) or an empty string.
func (a *Address) StreetLine(n int) string {
	if a == nil || n >= len(a.Street) {
		return ""
	}
	return a.Street[n]
}

type Payment struct {
	Method string `json:"method" bson:"method"`
}

type StatusHistory struct {
	Comment          string    `json:"comment" bson:"comment"`
	Status           string    `json:"status" bson:"status"`
	CustomerNotified bool      `json:"is_customer_notified" bson:"is_customer_notified"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// VisibleItems skips child rows of bundles and configurable products.
func (o *Order) VisibleItems() []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.ParentItemId == "" {
			items = append(items, item)
		}
	}
	return items
}

// PaymentMethod returns the method code of the order payment, empty if there is no payment record.
func (o *Order) PaymentMethod() string {
	if o.Payment == nil {
		return ""
	}
	return o.Payment.Method
}

// Cancel moves the order to the canceled state.
func (o *Order) Cancel(now time.Time) {
	o.Status = StatusCanceled
	o.State = StateCanceled
	o.UpdatedAt = now
}

func (o *Order) AddStatusHistoryComment(comment string, notified bool, now time.Time) {
	o.StatusHistory = append(o.StatusHistory, StatusHistory{
		Comment:          comment,
		Status:           o.Status,
		CustomerNotified: notified,
		CreatedAt:        now,
	})
}
