package model

import (
	"encoding/json"
	"time"
)

// Status codes reported by the bank for an application.
const (
	StatusCreated = iota
	StatusSchemeSelected
	StatusApplicationCompleted
	StatusSentToBank
	StatusContactFailed
	StatusCancelled
	StatusRejected
	StatusContractSigned
	StatusCreditDisbursed
)

var statusLabels = [...]string{
	StatusCreated:              "Created",
	StatusSchemeSelected:       "Scheme Selected",
	StatusApplicationCompleted: "Application Completed",
	StatusSentToBank:           "Sent to Bank",
	StatusContactFailed:        "Contact Failed",
	StatusCancelled:            "Cancelled",
	StatusRejected:             "Rejected",
	StatusContractSigned:       "Contract Signed",
	StatusCreditDisbursed:      "Credit Disbursed",
}

// StatusLabel falls back to the Created label for unknown codes.
func StatusLabel(status int) string {
	if status < 0 || status >= len(statusLabels) {
		return statusLabels[StatusCreated]
	}
	return statusLabels[status]
}

func StatusLabels() map[int]string {
	labels := make(map[int]string, len(statusLabels))
	for code, label := range statusLabels {
		labels[code] = label
	}
	return labels
}

type Order struct {
	OrderID   int64     `json:"order_id"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o Order) Label() string {
	return StatusLabel(o.Status)
}

func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Label     string `json:"label"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
		*Alias
	}{
		Label:     o.Label(),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
		Alias:     (*Alias)(&o),
	})
}
