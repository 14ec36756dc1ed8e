package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/internal/adapters/repository"
	"github.com/podiumhq/podium/internal/domain/model"
)

func dataset(id string, hash uint64) repository.Dataset {
	return repository.Dataset{
		ID:        id,
		Hash:      hash,
		Rows:      1,
		CreatedAt: time.Now(),
		Table:     model.Table{Rows: []model.Record{{Athlete: "A", Country: "USA", Year: 2000}}},
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an empty store", t, func() {
		store := repository.NewMemStore()

		convey.Convey("When putting and getting a dataset", func() {
			convey.So(store.Put(ctx, dataset("a", 1)), convey.ShouldBeNil)
			ds, err := store.Get(ctx, "a")

			convey.Convey("Then the dataset round-trips", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.ID, convey.ShouldEqual, "a")
				convey.So(store.Len(ctx), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When getting an unknown ID", func() {
			_, err := store.Get(ctx, "missing")

			convey.Convey("Then ErrNotFound is returned", func() {
				convey.So(err, convey.ShouldWrap, repository.ErrNotFound)
			})
		})

		convey.Convey("When looking up by content hash", func() {
			convey.So(store.Put(ctx, dataset("a", 42)), convey.ShouldBeNil)

			convey.Convey("Then a held hash resolves to its dataset", func() {
				ds, ok := store.FindByHash(ctx, 42)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(ds.ID, convey.ShouldEqual, "a")
			})

			convey.Convey("And an unknown hash reports absence", func() {
				_, ok := store.FindByHash(ctx, 7)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When deleting a dataset", func() {
			convey.So(store.Put(ctx, dataset("a", 1)), convey.ShouldBeNil)
			store.Delete(ctx, "a")

			convey.Convey("Then both indexes forget it", func() {
				_, err := store.Get(ctx, "a")
				convey.So(err, convey.ShouldWrap, repository.ErrNotFound)
				_, ok := store.FindByHash(ctx, 1)
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("And deleting it again is a no-op", func() {
				store.Delete(ctx, "a")
				convey.So(store.Len(ctx), convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a store at capacity", t, func() {
		store := repository.NewMemStore(repository.WithCapacity(2))
		convey.So(store.Put(ctx, dataset("a", 1)), convey.ShouldBeNil)
		convey.So(store.Put(ctx, dataset("b", 2)), convey.ShouldBeNil)

		convey.Convey("When putting one more", func() {
			convey.So(store.Put(ctx, dataset("c", 3)), convey.ShouldBeNil)

			convey.Convey("Then the oldest dataset is evicted", func() {
				convey.So(store.Len(ctx), convey.ShouldEqual, 2)
				_, err := store.Get(ctx, "a")
				convey.So(err, convey.ShouldWrap, repository.ErrNotFound)
				convey.So(store.IDs(ctx), convey.ShouldResemble, []string{"b", "c"})
			})

			convey.Convey("And the evicted hash no longer resolves", func() {
				_, ok := store.FindByHash(ctx, 1)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When re-putting an existing ID", func() {
			convey.So(store.Put(ctx, dataset("b", 20)), convey.ShouldBeNil)

			convey.Convey("Then nothing is evicted", func() {
				convey.So(store.IDs(ctx), convey.ShouldResemble, []string{"a", "b"})
			})
		})
	})
}
