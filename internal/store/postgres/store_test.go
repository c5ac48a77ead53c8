package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store, err := NewStoreWithPool(mock, "products")
	require.NoError(t, err)
	return store, mock
}

func TestUpsertReplacesOnConflict(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	url := "https://shop.example.com/product/kibble"
	p := catalog.Product{
		ID:          catalog.ProductID(url),
		Title:       "Premium Dog Kibble",
		Description: "Grain-free dry food",
		Price:       12.50,
		URL:         url,
		Image:       []byte{0xFF, 0xD8},
		PetType:     catalog.PetTypeDog,
	}

	mock.ExpectExec("INSERT INTO products .* ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(p.ID, p.Title, p.Description, p.Price, p.URL, p.Image, "Dog").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Upsert(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRequiresID(t *testing.T) {
	t.Parallel()

	store, _ := newMockStore(t)
	err := store.Upsert(context.Background(), catalog.Product{URL: "https://shop.example.com"})
	require.Error(t, err)
}

func TestGetAllScansRows(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "title", "description", "price", "url", "image", "pet_type"}).
		AddRow("id-a", "Feather Teaser", "Interactive cat toy", 4.99, "https://shop.example.com/p/1", []byte(nil), "Cat").
		AddRow("id-b", "Premium Dog Kibble", "Grain-free dry food", 12.50, "https://shop.example.com/p/2", []byte{0x1}, "Dog")

	mock.ExpectQuery("SELECT id, title, description, price, url, image, pet_type FROM products ORDER BY id").
		WillReturnRows(rows)

	got, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Feather Teaser", got[0].Title)
	require.Equal(t, catalog.PetTypeCat, got[0].PetType)
	require.Equal(t, catalog.PetTypeDog, got[1].PetType)
	require.InDelta(t, 12.50, got[1].Price, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByPetType(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"pet_type", "count"}).
		AddRow("Dog", 3).
		AddRow("Other", 1)

	mock.ExpectQuery("SELECT pet_type, COUNT\\(\\*\\) FROM products GROUP BY pet_type").
		WillReturnRows(rows)

	got, err := store.CountByPetType(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[catalog.PetType]int{
		catalog.PetTypeDog:   3,
		catalog.PetTypeOther: 1,
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearDeletesAllRows(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM products").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStoreWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewStoreWithPool(mock, "products; DROP TABLE products")
	require.Error(t, err)

	_, err = NewStoreWithPool(nil, "products")
	require.Error(t, err)
}
