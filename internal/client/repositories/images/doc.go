// Package images persists the upload state of profile images that are
// mirrored to remote object storage.
//
// Each locally saved image gets one row keyed by its local path. Rows start
// as "pending" and move to "completed" once the mirror accepted the upload;
// pending rows are retried by ProfileStore.SyncPendingImages.
//
//	repo := images.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, img)
//	pend, _ := repo.GetAllPending(ctx)
//	_ = repo.MarkUploaded(ctx, img.LocalPath)
package images
