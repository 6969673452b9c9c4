// Package publish renders documents and stores the output.
//
// Two targets are available: DiskStore writes below a local directory and
// S3Store uploads with PutObject. Both implement Store, so a Publisher
// does not care where the bytes end up.
//
//	store, err := publish.StoreFromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	res, err := publish.New(store, publish.Options{}).Publish(ctx, cfg.PublishKey(), root)
package publish
