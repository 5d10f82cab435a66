// Package logging provides structured, context-aware logging on top of Zap.
//
// A Logger is created once per process from config and passed explicitly to
// the components that need it; there is no package-level logger.
//
//	logger, err := logging.NewLogger(logging.Config{Path: "app.log", Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithActor(ctx, "alice")
//	logger.Info(ctx, "project created", zap.String("project_id", id))
//
// Entries carry the acting username as the "actor" field when one is set
// on the context.
package logging
