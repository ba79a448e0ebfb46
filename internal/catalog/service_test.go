package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/dbtest"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

var jan1 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(client, NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client
}

func price(t *testing.T, svc Service, menuID uint, amount string, at time.Time) *models.MenuPricing {
	t.Helper()
	pricing, err := svc.SetPrice(context.Background(), menuID, SetPriceInput{
		Servings:    1,
		Price:       decimal.RequireFromString(amount),
		EffectiveAt: at,
	})
	require.NoError(t, err)
	return pricing
}

func TestCurrentPriceFollowsLatestEffectiveRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	menu, err := svc.CreateMenu(ctx, "Ensaymada", "Bread")
	require.NoError(t, err)

	_, err = svc.CurrentPrice(ctx, menu.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)

	price(t, svc, menu.ID, "25.00", jan1)
	price(t, svc, menu.ID, "28.00", jan1.AddDate(0, 2, 0))
	price(t, svc, menu.ID, "27.00", jan1.AddDate(0, 1, 0))

	current, err := svc.CurrentPrice(ctx, menu.ID)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("28.00").Equal(current.Price))

	// Same effective time: the later row wins.
	price(t, svc, menu.ID, "29.50", jan1.AddDate(0, 2, 0))
	current, err = svc.CurrentPrice(ctx, menu.ID)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("29.50").Equal(current.Price))

	history, err := svc.PriceHistory(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	require.True(t, decimal.RequireFromString("25.00").Equal(history[0].Price))
	require.True(t, decimal.RequireFromString("27.00").Equal(history[1].Price))
	require.True(t, decimal.RequireFromString("29.50").Equal(history[3].Price))
}

func TestPriceAtIgnoresFuturePrices(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	menu, err := svc.CreateMenu(ctx, "Pandesal", "Bread")
	require.NoError(t, err)
	price(t, svc, menu.ID, "5.00", jan1)
	price(t, svc, menu.ID, "6.00", jan1.AddDate(0, 6, 0))

	at, err := svc.PriceAt(ctx, menu.ID, jan1.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("5.00").Equal(at.Price))

	_, err = svc.PriceAt(ctx, menu.ID, jan1.Add(-time.Hour))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestSetPriceValidation(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	menu, err := svc.CreateMenu(ctx, "Ube Cake", "Cake")
	require.NoError(t, err)

	cases := []SetPriceInput{
		{Servings: 0, Price: decimal.NewFromInt(10), EffectiveAt: jan1},
		{Servings: 1, Price: decimal.NewFromInt(-1), EffectiveAt: jan1},
		{Servings: 1, Price: decimal.RequireFromString("1.234"), EffectiveAt: jan1},
		{Servings: 1, Price: decimal.NewFromInt(10)},
	}
	for _, input := range cases {
		_, err := svc.SetPrice(ctx, menu.ID, input)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidArgument), "input %+v got %v", input, err)
	}

	_, err = svc.SetPrice(ctx, 999, SetPriceInput{Servings: 1, Price: decimal.NewFromInt(1), EffectiveAt: jan1})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	free, err := svc.SetPrice(ctx, menu.ID, SetPriceInput{Servings: 8, Price: decimal.Zero, EffectiveAt: jan1})
	require.NoError(t, err)
	require.Equal(t, 8, free.Servings)

	var rows int64
	require.NoError(t, client.DB().Model(&models.MenuPricing{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestDeleteMenu(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	sold, err := svc.CreateMenu(ctx, "Leche Flan", "Dessert")
	require.NoError(t, err)
	unsold, err := svc.CreateMenu(ctx, "Buko Pie", "Dessert")
	require.NoError(t, err)
	price(t, svc, sold.ID, "120.00", jan1)
	price(t, svc, unsold.ID, "250.00", jan1)

	order := models.Order{OrderedAt: jan1, CustomerID: 1, EmployeeID: 1, Total: decimal.RequireFromString("120.00")}
	require.NoError(t, client.DB().Create(&order).Error)
	line := models.OrderLine{
		OrderID:   order.ID,
		MenuID:    sold.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("120.00"),
		Subtotal:  decimal.RequireFromString("120.00"),
	}
	require.NoError(t, client.DB().Create(&line).Error)

	err = svc.DeleteMenu(ctx, sold.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict), "got %v", err)

	require.NoError(t, svc.DeleteMenu(ctx, unsold.ID))
	var pricings int64
	require.NoError(t, client.DB().Model(&models.MenuPricing{}).Where("menu_id = ?", unsold.ID).Count(&pricings).Error)
	require.Zero(t, pricings)

	_, err = svc.GetMenu(ctx, unsold.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestListMenusFiltersByCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, m := range [][2]string{{"Pandesal", "Bread"}, {"Ensaymada", "Bread"}, {"Sapin-sapin", "Kakanin"}} {
		_, err := svc.CreateMenu(ctx, m[0], m[1])
		require.NoError(t, err)
	}

	bread, err := svc.ListMenus(ctx, "Bread")
	require.NoError(t, err)
	require.Len(t, bread, 2)
	require.Equal(t, "Ensaymada", bread[0].Name)

	all, err := svc.ListMenus(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.CreateMenu(ctx, "Puto", " ")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidArgument))
}
