package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupfund/groupfund/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func participants(names ...string) []*model.Participant {
	out := make([]*model.Participant, len(names))
	for i, n := range names {
		out[i] = &model.Participant{ID: n, Name: n}
	}
	return out
}

func deposit(contributor, amount string) *model.Deposit {
	return &model.Deposit{ContributorID: contributor, Amount: d(amount)}
}

func expense(category, amount string) *model.Expense {
	e := &model.Expense{Amount: d(amount)}
	if category != "" {
		e.Category = &model.Category{ID: category, Name: category}
		e.CategoryID = category
	}
	return e
}

func TestCalculate_AllSettled(t *testing.T) {
	s := Calculate(
		participants("A", "B"),
		[]*model.Expense{expense("cat1", "90")},
		[]*model.Deposit{deposit("A", "100"), deposit("B", "50")},
	)

	assertDecimal(t, "150", s.TotalCollected)
	assertDecimal(t, "90", s.TotalSpent)
	assertDecimal(t, "60", s.Balance)
	assertDecimal(t, "45", s.IndividualShare)

	require.Len(t, s.Participants, 2)
	a, ok := s.Participant("A")
	require.True(t, ok)
	assertDecimal(t, "55", a.Delta)
	assert.Equal(t, StatusSettled, a.Status)
	assertDecimal(t, "0", a.AmountDue)

	b, _ := s.Participant("B")
	assertDecimal(t, "5", b.Delta)
	assert.Equal(t, StatusSettled, b.Status)
}

func TestCalculate_Owed(t *testing.T) {
	s := Calculate(
		participants("A", "B"),
		[]*model.Expense{expense("cat1", "100")},
		[]*model.Deposit{deposit("A", "20")},
	)

	assertDecimal(t, "50", s.IndividualShare)
	assertDecimal(t, "-80", s.Balance)

	a, _ := s.Participant("A")
	assertDecimal(t, "-30", a.Delta)
	assert.Equal(t, StatusToPay, a.Status)
	assertDecimal(t, "30", a.AmountDue)

	b, _ := s.Participant("B")
	assertDecimal(t, "0", b.Contribution)
	assertDecimal(t, "-50", b.Delta)
	assertDecimal(t, "50", b.AmountDue)

	assertDecimal(t, "80", s.TotalDue())
}

func TestCalculate_NoParticipants(t *testing.T) {
	s := Calculate(nil, []*model.Expense{expense("x", "10")}, nil)

	assertDecimal(t, "0", s.IndividualShare)
	assert.Empty(t, s.Participants)
	assertDecimal(t, "-10", s.Balance)
}

func TestCalculate_Empty(t *testing.T) {
	s := Calculate(nil, nil, nil)

	assertDecimal(t, "0", s.TotalSpent)
	assertDecimal(t, "0", s.TotalCollected)
	assertDecimal(t, "0", s.Balance)
	assert.Empty(t, s.Categories)
}

func TestCalculate_CategoryFallbackAndOrder(t *testing.T) {
	orphan := &model.Expense{Amount: d("5"), CategoryID: "gone"}
	unnamed := &model.Expense{Amount: d("5"), Category: &model.Category{ID: "c"}}

	s := Calculate(
		participants("A"),
		[]*model.Expense{expense("Lunch", "30"), expense("Dinner", "30"), expense("Drinks", "50"), orphan, unnamed, nil},
		nil,
	)

	require.Len(t, s.Categories, 4)
	assert.Equal(t, "Drinks", s.Categories[0].Name)
	assert.Equal(t, "Dinner", s.Categories[1].Name)
	assert.Equal(t, "Lunch", s.Categories[2].Name)
	assert.Equal(t, model.OtherCategoryName, s.Categories[3].Name)
	assertDecimal(t, "10", s.Categories[3].Cost)

	assertDecimal(t, "120", s.TotalSpent)
	assertDecimal(t, "41.6666666666666667", s.Categories[0].Percent)
}

func TestCalculate_ParticipantOrderAndUnknownContributor(t *testing.T) {
	ps := []*model.Participant{
		{ID: "2", Name: "Zed"},
		{ID: "1", Name: "Amy"},
		{ID: "0", Name: "Amy"},
	}
	s := Calculate(ps, nil, []*model.Deposit{deposit("ghost", "10")})

	require.Len(t, s.Participants, 3)
	assert.Equal(t, "0", s.Participants[0].ParticipantID)
	assert.Equal(t, "1", s.Participants[1].ParticipantID)
	assert.Equal(t, "2", s.Participants[2].ParticipantID)

	// Deposits from unknown contributors still count towards the fund.
	assertDecimal(t, "10", s.TotalCollected)
	for _, p := range s.Participants {
		assert.Equal(t, StatusSettled, p.Status)
	}
}

func TestCalculate_UnevenShare(t *testing.T) {
	s := Calculate(participants("A", "B", "C"), []*model.Expense{expense("x", "100")}, []*model.Deposit{deposit("A", "100")})

	assertDecimal(t, "33.3333333333333333", s.IndividualShare)
	b, _ := s.Participant("B")
	assertDecimal(t, "-33.33", b.Delta)
	assertDecimal(t, "33.33", b.AmountDue)
}

func TestCalculate_SubCentShortfallIsSettled(t *testing.T) {
	s := Calculate(
		participants("A", "B", "C"),
		[]*model.Expense{expense("x", "100")},
		[]*model.Deposit{deposit("A", "33.33"), deposit("B", "33.34"), deposit("C", "33.32")},
	)

	a, _ := s.Participant("A")
	assertDecimal(t, "0", a.Delta)
	assert.Equal(t, StatusSettled, a.Status)
	assertDecimal(t, "0", a.AmountDue)

	b, _ := s.Participant("B")
	assertDecimal(t, "0.01", b.Delta)
	assert.Equal(t, StatusSettled, b.Status)

	c, _ := s.Participant("C")
	assertDecimal(t, "-0.01", c.Delta)
	assert.Equal(t, StatusToPay, c.Status)
	assertDecimal(t, "0.01", c.AmountDue)
}

func TestCalculate_IgnoresCachedTotals(t *testing.T) {
	ps := participants("A")
	ps[0].TotalContributed = d("999")

	s := Calculate(ps, nil, []*model.Deposit{deposit("A", "5")})

	a, _ := s.Participant("A")
	assertDecimal(t, "5", a.Contribution)
}
