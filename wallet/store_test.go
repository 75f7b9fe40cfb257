package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/models"
	"github.com/wzwerch/sovrin/domain/services"
)

// runStoreTests exercises the backend-independent store contract; both the
// in-memory and the redis implementations must pass it unchanged.
func runStoreTests(t *testing.T, store services.Store) {
	t.Run(`link by nonce`, func(t *testing.T) {
		l := &models.Link{Name: `faber`, Nonce: `nonce-1`, LocalIdentifier: `local-1`, Status: models.LinkStatusPending}
		require.NoError(t, store.SaveLink(l))

		got, err := store.LinkByNonce(`nonce-1`)
		require.NoError(t, err)
		require.Equal(t, `faber`, got.Name)
		require.Equal(t, models.LinkStatusPending, got.Status)

		_, err = store.LinkByNonce(`unknown`)
		require.ErrorIs(t, err, domain.ErrLinkNotFound)
	})

	t.Run(`link without nonce is rejected`, func(t *testing.T) {
		require.Error(t, store.SaveLink(&models.Link{Name: `faber`}))
	})

	t.Run(`link by target`, func(t *testing.T) {
		l := &models.Link{Name: `acme`, Nonce: `nonce-2`, TargetIdentifier: `target-1`}
		require.NoError(t, store.SaveLink(l))

		got, err := store.LinkByTarget(`target-1`)
		require.NoError(t, err)
		require.Equal(t, `nonce-2`, got.Nonce)

		_, err = store.LinkByTarget(`unknown`)
		require.ErrorIs(t, err, domain.ErrLinkNotFound)
	})

	t.Run(`save is an upsert on the nonce`, func(t *testing.T) {
		l := &models.Link{Name: `thrift`, Nonce: `nonce-3`, Status: models.LinkStatusPending}
		require.NoError(t, store.SaveLink(l))

		l.Status = models.LinkStatusAccepted
		require.NoError(t, store.SaveLink(l))

		got, err := store.LinkByNonce(`nonce-3`)
		require.NoError(t, err)
		require.Equal(t, models.LinkStatusAccepted, got.Status)

		ls, err := store.Links()
		require.NoError(t, err)
		var count int
		for _, each := range ls {
			if each.Nonce == `nonce-3` {
				count++
			}
		}
		require.Equal(t, 1, count)
	})

	t.Run(`returned link is a copy`, func(t *testing.T) {
		l := &models.Link{Name: `origin`, Nonce: `nonce-4`}
		require.NoError(t, store.SaveLink(l))

		got, err := store.LinkByNonce(`nonce-4`)
		require.NoError(t, err)
		got.Name = `mutated`

		again, err := store.LinkByNonce(`nonce-4`)
		require.NoError(t, err)
		require.Equal(t, `origin`, again.Name)
	})

	t.Run(`links are ordered by nonce`, func(t *testing.T) {
		ls, err := store.Links()
		require.NoError(t, err)
		for i := 1; i < len(ls); i++ {
			require.Less(t, ls[i-1].Nonce, ls[i].Nonce)
		}
	})

	t.Run(`claim definitions`, func(t *testing.T) {
		key := models.ClaimDefKey{Name: `Transcript`, Version: `1.2`, SeqNo: 12}
		def := models.ClaimDef{Key: key, Definition: []byte(`{"attr_names":["ssn","degree"]}`)}
		require.NoError(t, store.SaveClaimDef(def))
		// storing the same immutable definition twice is harmless
		require.NoError(t, store.SaveClaimDef(def))

		got, err := store.ClaimDef(key)
		require.NoError(t, err)
		require.Equal(t, key, got.Key)
		require.JSONEq(t, `{"attr_names":["ssn","degree"]}`, string(got.Definition))

		_, err = store.ClaimDef(models.ClaimDefKey{Name: `missing`, Version: `0.0`, SeqNo: 1})
		require.ErrorIs(t, err, domain.ErrClaimDefNotFound)
	})
}
