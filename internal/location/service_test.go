package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/dbtest"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(client, NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, pkgerrors.CodeOf(err), "got %v", err)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := dbtest.Open(t)

	_, err := NewService(nil, NewRepository(client.DB()))
	require.Error(t, err)

	_, err = NewService(client, nil)
	require.Error(t, err)
}

func TestResolveAddressReturnsFullChain(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	barangay, err := svc.CreateBarangay(ctx, "  Poblacion ")
	require.NoError(t, err)
	require.Equal(t, "Poblacion", barangay.Name)

	street, err := svc.CreateStreet(ctx, "Rizal St", barangay.ID)
	require.NoError(t, err)
	address, err := svc.CreateAddress(ctx, "Blk 4 Lot 12", street.ID)
	require.NoError(t, err)

	resolved, err := svc.ResolveAddress(ctx, address.ID)
	require.NoError(t, err)
	require.Equal(t, address.ID, resolved.Address.ID)
	require.Equal(t, street.ID, resolved.Street.ID)
	require.Equal(t, barangay.ID, resolved.Barangay.ID)
	require.Equal(t, "Blk 4 Lot 12, Rizal St, Poblacion", resolved.Display())
}

func TestCreateRejectsOrphans(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateStreet(ctx, "Mabini St", 404)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.CreateAddress(ctx, "Corner house", 404)
	requireCode(t, err, pkgerrors.CodeNotFound)

	var streets, addresses int64
	require.NoError(t, client.DB().Model(&models.Street{}).Count(&streets).Error)
	require.NoError(t, client.DB().Model(&models.Address{}).Count(&addresses).Error)
	require.Zero(t, streets)
	require.Zero(t, addresses)
}

func TestCreateValidatesText(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBarangay(ctx, "   ")
	requireCode(t, err, pkgerrors.CodeInvalidArgument)

	long := make([]byte, maxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateBarangay(ctx, string(long))
	requireCode(t, err, pkgerrors.CodeInvalidArgument)
}

func TestDeleteRespectsChildren(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	barangay, err := svc.CreateBarangay(ctx, "San Isidro")
	require.NoError(t, err)
	street, err := svc.CreateStreet(ctx, "Luna St", barangay.ID)
	require.NoError(t, err)
	address, err := svc.CreateAddress(ctx, "Unit 2", street.ID)
	require.NoError(t, err)

	requireCode(t, svc.DeleteBarangay(ctx, barangay.ID), pkgerrors.CodeConflict)
	requireCode(t, svc.DeleteStreet(ctx, street.ID), pkgerrors.CodeConflict)

	customer := models.Customer{Name: "Lorna", AddressID: &address.ID}
	require.NoError(t, client.DB().Create(&customer).Error)
	requireCode(t, svc.DeleteAddress(ctx, address.ID), pkgerrors.CodeConflict)

	customer.AddressID = nil
	require.NoError(t, client.DB().Save(&customer).Error)

	require.NoError(t, svc.DeleteAddress(ctx, address.ID))
	require.NoError(t, svc.DeleteStreet(ctx, street.ID))
	require.NoError(t, svc.DeleteBarangay(ctx, barangay.ID))

	requireCode(t, svc.DeleteBarangay(ctx, barangay.ID), pkgerrors.CodeNotFound)
	_, err = svc.ResolveAddress(ctx, address.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRenameAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	barangay, err := svc.CreateBarangay(ctx, "Bagong Silang")
	require.NoError(t, err)
	_, err = svc.CreateStreet(ctx, "Zamora St", barangay.ID)
	require.NoError(t, err)
	street, err := svc.CreateStreet(ctx, "Aguinaldo St", barangay.ID)
	require.NoError(t, err)

	renamed, err := svc.RenameBarangay(ctx, barangay.ID, "Bagong Pag-asa")
	require.NoError(t, err)
	require.Equal(t, "Bagong Pag-asa", renamed.Name)

	renamedStreet, err := svc.RenameStreet(ctx, street.ID, "Bonifacio St")
	require.NoError(t, err)
	require.Equal(t, barangay.ID, renamedStreet.BarangayID)

	streets, err := svc.ListStreets(ctx, barangay.ID)
	require.NoError(t, err)
	require.Len(t, streets, 2)
	require.Equal(t, "Bonifacio St", streets[0].Name)
	require.Equal(t, "Zamora St", streets[1].Name)

	address, err := svc.CreateAddress(ctx, "Gate 1", street.ID)
	require.NoError(t, err)
	updated, err := svc.UpdateAddressDescription(ctx, address.ID, "Gate 2")
	require.NoError(t, err)
	require.Equal(t, "Gate 2", updated.Description)

	addresses, err := svc.ListAddresses(ctx, street.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)

	_, err = svc.ListStreets(ctx, 999)
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.RenameStreet(ctx, 999, "Nowhere")
	requireCode(t, err, pkgerrors.CodeNotFound)

	barangays, err := svc.ListBarangays(ctx)
	require.NoError(t, err)
	require.Len(t, barangays, 1)
}
