package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
)

// Order T1: P1 (seller A, physical), P2 (seller B, physical), bundle B1 ->
// {P3, P4} (digital). Paid through the webhook, then split.
func TestFulfillment_T1Scenario(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	tx := seedT1(t, db, "T1")
	ctx := context.Background()

	pay := newPaymentService(db)
	res, err := pay.HandleWebhook(ctx, notification("T1", "settlement", "", "255000.00"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeApplied, res.Outcome)

	// The buyer's client confirms too; nothing changes.
	conf, err := pay.ConfirmDirect(ctx, ConfirmInput{OrderRef: "T1", Status: "success", CallerID: "cust-1"})
	require.NoError(t, err)
	assert.True(t, conf.AlreadyPaid)

	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, entitledProducts(t, db, "cust-1"))
	assert.EqualValues(t, 4, countRows(t, db, &domain.ReadingProgress{}, "customer_id = ?", "cust-1"))

	ships := &ShipmentService{DB: db}
	rows, err := ships.Split(ctx, "cust-1", tx.ID, testRecipient, choicesAB())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	want := map[string]string{"A": "P1", "B": "P2"}
	for _, sh := range rows {
		d, err := ships.Detail(ctx, sh.ID, "cust-1")
		require.NoError(t, err)
		require.Len(t, d.Items, 1, sh.SellerID)
		assert.Equal(t, want[sh.SellerID], *d.Items[0].ProductID)
	}

	st, err := repo.GetTransactionStatus(ctx, db, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, st)
}
