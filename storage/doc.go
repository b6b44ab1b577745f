// Package storage persists small documents such as the custom engine list.
//
// Backends register a factory under a provider name; import the backend
// package for its side effect and build through New:
//
//	import _ "github.com/kbukum/speechkit/storage/local"
//
//	store, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: dir}, log)
//	data, err := storage.ReadAll(ctx, store, "customCloudModels.json")
//
// Providers: local (filesystem, atomic writes), memory (process-local),
// s3 (Amazon S3 and compatible services, for settings shared between hosts).
package storage
