package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal_SumsAllFourFields(t *testing.T) {
	li := LineItem{ID: "A1", Priority: PriorityP0, FE: 8, BE: 6, Intg: 0, QA: 4}
	assert.Equal(t, Hours(18), li.Total())
}

func TestTotal_FollowsEveryMutation(t *testing.T) {
	li := LineItem{ID: "A1", Priority: PriorityP0, FE: 8, BE: 6, QA: 4}
	require.NoError(t, li.SetEffort(EffortIntg, 2.5))
	assert.Equal(t, Hours(20.5), li.Total())
	require.NoError(t, li.SetEffort(EffortFE, 0))
	assert.Equal(t, Hours(12.5), li.Total())
}

func TestSetEffort_RejectsNegative(t *testing.T) {
	li := LineItem{ID: "A1", FE: 3}
	err := li.SetEffort(EffortFE, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeHours)
	assert.Equal(t, Hours(3), li.FE, "value should not change")
}

func TestSetEffort_UnknownField(t *testing.T) {
	li := LineItem{ID: "A1"}
	err := li.SetEffort(EffortField("design"), 4)
	assert.ErrorIs(t, err, ErrUnknownEffortField)
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		raw  string
		want Hours
	}{
		{"8", 8},
		{" 7.5 ", 7.5},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-3", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e2", 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseHours(tc.raw), "raw=%q", tc.raw)
	}
}

func TestHours_UnmarshalJSON_ToleratesBadInput(t *testing.T) {
	var li LineItem
	data := `{"id":"B2","name":"Login","priority":"P1","fe":"12","be":null,"intg":"oops","qa":true}`
	require.NoError(t, json.Unmarshal([]byte(data), &li))
	assert.Equal(t, Hours(12), li.FE)
	assert.Equal(t, Hours(0), li.BE)
	assert.Equal(t, Hours(0), li.Intg)
	assert.Equal(t, Hours(0), li.QA)
	assert.Equal(t, Hours(12), li.Total())
}

func TestLineItem_JSONOmitsTotal(t *testing.T) {
	li := LineItem{ID: "A1", Priority: PriorityP0, FE: 8}
	data, err := json.Marshal(li)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "total")
	assert.Contains(t, string(data), `"desc":""`)
}

func TestValidate_UnknownPriority(t *testing.T) {
	li := LineItem{ID: "A1", Priority: "P3"}
	err := li.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPriority)
}

func TestValidate_LowercasePriorityIsRejected(t *testing.T) {
	li := LineItem{ID: "A1", Priority: "p0"}
	assert.ErrorIs(t, li.Validate(), ErrUnknownPriority)
}

func TestDatasetValidate_CollectsAllProblems(t *testing.T) {
	d := Dataset{
		{ID: "A1", Priority: PriorityP0},
		{ID: "A1", Priority: PriorityP1},
		{ID: "", Priority: PriorityP2},
		{ID: "C3", Priority: "urgent", QA: -2},
	}
	err := d.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, err, ErrUnknownPriority)
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestDatasetValidate_Valid(t *testing.T) {
	d := Dataset{
		{ID: "A1", Priority: PriorityP0, FE: 1},
		{ID: "A2", Priority: PriorityP2},
	}
	assert.NoError(t, d.Validate())
}

func TestDatasetClone_IsIndependent(t *testing.T) {
	d := Dataset{{ID: "A1", Priority: PriorityP0, FE: 1}}
	c := d.Clone()
	c[0].FE = 9
	assert.Equal(t, Hours(1), d[0].FE)
	assert.Nil(t, Dataset(nil).Clone())
}

func TestDatasetIndexOf(t *testing.T) {
	d := Dataset{{ID: "A1"}, {ID: "B2"}}
	assert.Equal(t, 1, d.IndexOf("B2"))
	assert.Equal(t, -1, d.IndexOf("Z9"))
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" p1 ")
	require.NoError(t, err)
	assert.Equal(t, PriorityP1, p)

	_, err = ParsePriority("P4")
	assert.ErrorIs(t, err, ErrUnknownPriority)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleClient, ParseRole("client"))
	assert.Equal(t, RoleClient, ParseRole("ADMIN"))
	assert.Equal(t, RoleClient, ParseRole(""))
}

func TestPricing_WithRate(t *testing.T) {
	p := DefaultPricing()
	got, err := p.WithRate(60)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Rate)

	_, err = p.WithRate(0)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = p.WithRate(-5)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = p.WithRate(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = p.WithRate(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestPricing_WithBufferIgnoresNonFinite(t *testing.T) {
	p := DefaultPricing()
	assert.Equal(t, p, p.WithBuffer(math.Inf(1)))
	assert.Equal(t, p, p.WithBuffer(math.Inf(-1)))
	assert.Equal(t, p, p.WithBuffer(math.NaN()))
}

func TestPricing_WithBufferClampsNegative(t *testing.T) {
	p := DefaultPricing().WithBuffer(-10)
	assert.Equal(t, 0.0, p.BufferPercent)
	assert.Equal(t, 1.0, p.BufferFactor())
	assert.InDelta(t, 1.25, DefaultPricing().WithBuffer(25).BufferFactor(), 1e-9)
}
