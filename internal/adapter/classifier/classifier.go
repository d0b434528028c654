package classifier

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Classifier assigns one of Categories to a piece of text. The model is
// loaded on first use, exactly once for the lifetime of the Classifier, and
// shared read-only by every caller afterwards.
type Classifier struct {
	store   ModelStore
	modelID string
	logger  *zap.Logger

	once  sync.Once
	model *Model
}

func New(store ModelStore, modelID string, logger *zap.Logger) *Classifier {
	return &Classifier{store: store, modelID: modelID, logger: logger}
}

// Classify implements repository.Classifier. It returns DefaultCategory for
// blank text or when the model could not be loaded.
func (c *Classifier) Classify(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultCategory
	}
	m := c.load(ctx)
	if m == nil {
		return DefaultCategory
	}
	scores := m.Predict(Tokenize(text, m.InputWidth))
	return Categories[argmax(scores)]
}

// Ready reports whether a usable model is loaded, loading it if needed.
func (c *Classifier) Ready(ctx context.Context) bool {
	return c.load(ctx) != nil
}

func (c *Classifier) load(ctx context.Context) *Model {
	c.once.Do(func() {
		m, err := c.store.Load(ctx, c.modelID)
		if err != nil {
			c.logger.Warn("classifier model unavailable, using default category",
				zap.String("model_id", c.modelID),
				zap.String("default", DefaultCategory),
				zap.Error(err))
			return
		}
		c.logger.Info("classifier model loaded", zap.String("model_id", c.modelID), zap.Int("input_width", m.InputWidth))
		c.model = m
	})
	return c.model
}
