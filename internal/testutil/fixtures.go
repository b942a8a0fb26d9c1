package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/estimo/internal/domain"
)

var testItemCounter atomic.Int64

// Line item options
type ItemOption func(*domain.LineItem)

func WithID(id string) ItemOption {
	return func(li *domain.LineItem) {
		li.ID = id
	}
}

func WithPriority(p domain.Priority) ItemOption {
	return func(li *domain.LineItem) {
		li.Priority = p
	}
}

func WithEffort(fe, be, intg, qa domain.Hours) ItemOption {
	return func(li *domain.LineItem) {
		li.FE = fe
		li.BE = be
		li.Intg = intg
		li.QA = qa
	}
}

func WithDescription(desc string) ItemOption {
	return func(li *domain.LineItem) {
		li.Description = desc
	}
}

func NewTestItem(name string, opts ...ItemOption) domain.LineItem {
	n := testItemCounter.Add(1)
	li := domain.LineItem{
		ID:           fmt.Sprintf("T%03d", n),
		Name:         name,
		Description:  name + " description",
		Dependencies: "None",
		Priority:     domain.PriorityP0,
		FE:           4,
		BE:           4,
		Intg:         2,
		QA:           2,
	}
	for _, opt := range opts {
		opt(&li)
	}
	return li
}

// SampleDataset is the small estimate used across service and CLI tests.
func SampleDataset() domain.Dataset {
	return domain.Dataset{
		{ID: "A1", Name: "Login", Description: "Accesso utenti", Dependencies: "SSO", Priority: domain.PriorityP0, FE: 8, BE: 6, Intg: 0, QA: 4},
		{ID: "B1", Name: "Dashboard", Description: "KPI e grafici", Dependencies: "A1", Priority: domain.PriorityP1, FE: 10, BE: 4, Intg: 2, QA: 2},
		{ID: "C1", Name: "Report", Description: "Esportazione città", Dependencies: "B1", Priority: domain.PriorityP2, FE: 3, BE: 5, Intg: 1, QA: 1},
	}
}
