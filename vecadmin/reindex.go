package vecadmin

import (
	"context"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
)

// Reindex reparses and re-encodes corpus and replaces the snapshot in
// cfg.Path. The existing snapshot is never read, so one that is corrupt or
// was written by another encoder is replaced too. The new snapshot is
// renamed into place only after it is fully written; on failure the old file
// is left as it was.
func Reindex(ctx context.Context, cfg vecstore.Config, corpus vecstore.Corpus, enc embedding.Encoder, opts ...vecstore.Option) (*vecstore.Store, error) {
	opts = append(opts[:len(opts):len(opts)], vecstore.WithForceRebuild())
	return vecstore.Open(ctx, cfg, corpus, enc, opts...)
}
