package library

import (
	"context"
	"fmt"

	"MePlay/core/player"
	"MePlay/model"
)

// ViewKind is the kind of list a user can browse.
type ViewKind int

const (
	ViewCatalog ViewKind = iota
	ViewLiked
	ViewPlaylist
	ViewSearch
)

// View is a request for a track list.
type View struct {
	Kind       ViewKind
	PlaylistID string
	Query      string
	Genre      string
}

func CatalogView() View { return View{Kind: ViewCatalog} }

func LikedView() View { return View{Kind: ViewLiked} }

func PlaylistView(id string) View { return View{Kind: ViewPlaylist, PlaylistID: id} }

func SearchView(query, genre string) View {
	return View{Kind: ViewSearch, Query: query, Genre: genre}
}

// Origin is the origin tag of lists resolved from v.
func (v View) Origin() player.Origin {
	switch v.Kind {
	case ViewLiked:
		return player.OriginLiked
	case ViewPlaylist:
		return player.PlaylistOrigin(v.PlaylistID)
	case ViewSearch:
		return player.OriginSearch
	default:
		return player.OriginCatalog
	}
}

// Resolver turns views into track lists for the engine.
type Resolver struct {
	catalog   *Catalog
	likes     *LikeSet
	playlists *PlaylistStore
}

func NewResolver(catalog *Catalog, likes *LikeSet, playlists *PlaylistStore) *Resolver {
	return &Resolver{catalog: catalog, likes: likes, playlists: playlists}
}

// Resolve builds the list for v with no cursor. Failures yield an empty list
// alongside the error, never a nil list.
func (r *Resolver) Resolve(ctx context.Context, v View) (*player.TrackList, error) {
	switch v.Kind {
	case ViewCatalog:
		return r.catalog.List(), nil
	case ViewLiked:
		return player.NewTrackList(v.Origin(), r.liked()), nil
	case ViewPlaylist:
		tracks, err := r.playlists.Songs(ctx, v.PlaylistID)
		if err != nil {
			return player.NewTrackList(v.Origin(), nil), err
		}
		return player.NewTrackList(v.Origin(), tracks), nil
	case ViewSearch:
		return player.NewTrackList(v.Origin(), Search(r.catalog.Tracks(), v.Query, v.Genre)), nil
	}
	return player.NewTrackList(v.Origin(), nil), fmt.Errorf("unknown view kind %d", v.Kind)
}

// liked lists catalog tracks in the like set, most recently liked first when
// the durable tier told us the order, else in catalog order.
func (r *Resolver) liked() []model.Track {
	ids, ordered := r.likes.IDs()
	if ordered {
		out := make([]model.Track, 0, len(ids))
		for _, id := range ids {
			if t, ok := r.catalog.Track(id); ok {
				out = append(out, t)
			}
		}
		return out
	}

	out := []model.Track{}
	for _, t := range r.catalog.Tracks() {
		if r.likes.IsLiked(t.ID) {
			out = append(out, t)
		}
	}
	return out
}
