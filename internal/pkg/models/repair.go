package models

type RepairReport struct {
	Repaired int      `json:"repaired"`
	Requeued int      `json:"requeued"`
	Dead     int      `json:"dead"`
	Errors   []string `json:"errors,omitempty"`
}
