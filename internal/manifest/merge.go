package manifest

// UpdateAlbum returns a copy of the manifest with the album replaced in place
// when an album with the same id exists, or appended otherwise. The order of
// all other albums is preserved.
func UpdateAlbum(m Manifest, album Album) Manifest {
	out := clone(m)

	for i := range out.Albums {
		if out.Albums[i].ID == album.ID {
			out.Albums[i] = album
			return out
		}
	}

	out.Albums = append(out.Albums, album)
	return out
}

// UpdatePhotos returns a copy of the manifest with the album's photo set fully
// replaced: every existing photo with a matching albumId is dropped, then the
// new set is appended. A full replace, not a merge, so photos that disappeared
// upstream are dropped too. Chapter photoIds that no longer reference a photo
// in the new set are pruned; the chapters themselves are left untouched.
func UpdatePhotos(m Manifest, albumID string, photos []Photo) Manifest {
	out := clone(m)

	kept := out.Photos[:0:0]
	for _, p := range out.Photos {
		if p.AlbumID != albumID {
			kept = append(kept, p)
		}
	}
	out.Photos = append(kept, photos...)

	if chapters, ok := out.Chapters[albumID]; ok {
		present := make(map[string]bool, len(photos))
		for _, p := range photos {
			present[p.ID] = true
		}

		pruned := make([]Chapter, len(chapters))
		for i, ch := range chapters {
			ids := make([]string, 0, len(ch.PhotoIDs))
			for _, id := range ch.PhotoIDs {
				if present[id] {
					ids = append(ids, id)
				}
			}
			ch.PhotoIDs = ids
			pruned[i] = ch
		}
		out.Chapters[albumID] = pruned
	}

	return out
}

// RemoveAlbum returns a copy of the manifest without the album, its photos,
// and its chapter map entry.
func RemoveAlbum(m Manifest, albumID string) Manifest {
	out := clone(m)

	albums := out.Albums[:0:0]
	for _, a := range out.Albums {
		if a.ID != albumID {
			albums = append(albums, a)
		}
	}
	out.Albums = albums

	photos := out.Photos[:0:0]
	for _, p := range out.Photos {
		if p.AlbumID != albumID {
			photos = append(photos, p)
		}
	}
	out.Photos = photos

	delete(out.Chapters, albumID)
	return out
}

// clone copies the manifest deeply enough that merge functions never mutate
// caller-owned slices or the chapter map.
func clone(m Manifest) Manifest {
	out := m
	out.Albums = append([]Album(nil), m.Albums...)
	out.Photos = append([]Photo(nil), m.Photos...)
	if m.Chapters != nil {
		out.Chapters = make(map[string][]Chapter, len(m.Chapters))
		for k, v := range m.Chapters {
			out.Chapters[k] = append([]Chapter(nil), v...)
		}
	}
	return out
}
