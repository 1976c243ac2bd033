// Package engine drives batch classification and resolution: it iterates
// the dispute table in input order, invokes the classifier and resolver
// per dispute, and assembles the two output tables. One output record is
// emitted per input record; none are dropped or merged.
package engine

import (
	"fjacquet/dispute-assist/internal/classifier"
	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/resolver"
	"fjacquet/dispute-assist/internal/txindex"
)

// Engine ties the transaction index, classifier, and resolver together for
// one batch run. The index is read-only, so the engine is safe to share.
type Engine struct {
	index      *txindex.Index
	classifier *classifier.Classifier
	resolver   *resolver.Resolver
	logger     logging.Logger
}

// New constructs an Engine from its already-configured parts.
func New(index *txindex.Index, c *classifier.Classifier, r *resolver.Resolver, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Engine{
		index:      index,
		classifier: c,
		resolver:   r,
		logger:     logger,
	}
}

// ClassifyAll classifies every dispute, preserving input order. A failure
// on one record never aborts the batch: the faulty record degrades to a
// best-effort OTHERS result.
func (e *Engine) ClassifyAll(disputes []models.Dispute) []models.ClassifiedDispute {
	classified := make([]models.ClassifiedDispute, 0, len(disputes))
	for _, dispute := range disputes {
		classified = append(classified, e.classifyOne(dispute))
	}

	e.logger.WithField("count", len(classified)).Info("Classified disputes")
	return classified
}

func (e *Engine) classifyOne(dispute models.Dispute) (out models.ClassifiedDispute) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(
				logging.Field{Key: "dispute_id", Value: dispute.ID},
				logging.Field{Key: "panic", Value: r},
			).Error("Classification failed for record, emitting fallback result")
			out = models.ClassifiedDispute{
				DisputeID:   dispute.ID,
				TxnID:       dispute.TxnID,
				Amount:      dispute.Amount,
				Category:    models.CategoryOthers,
				Confidence:  0.5,
				Explanation: "Classification failed for this record",
			}
		}
	}()

	result := e.classifier.Classify(dispute)

	// Merchant and channel are carried through from the matched
	// transaction; unresolved references leave them empty.
	var merchant, channel string
	if txn, ok := e.index.Lookup(dispute.TxnID); ok {
		merchant = txn.Merchant
		channel = txn.Channel
	}

	return models.ClassifiedDispute{
		DisputeID:   dispute.ID,
		TxnID:       dispute.TxnID,
		Amount:      dispute.Amount,
		Merchant:    merchant,
		Channel:     channel,
		Category:    result.Category,
		Confidence:  result.Confidence,
		Explanation: result.Explanation,
	}
}

// ResolveAll produces exactly one resolution per classified dispute, in
// input order, with the same per-record fault isolation as ClassifyAll.
func (e *Engine) ResolveAll(classified []models.ClassifiedDispute) []models.Resolution {
	resolutions := make([]models.Resolution, 0, len(classified))
	for _, dispute := range classified {
		resolutions = append(resolutions, e.resolveOne(dispute))
	}

	e.logger.WithField("count", len(resolutions)).Info("Generated resolutions")
	return resolutions
}

func (e *Engine) resolveOne(dispute models.ClassifiedDispute) (out models.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(
				logging.Field{Key: "dispute_id", Value: dispute.DisputeID},
				logging.Field{Key: "panic", Value: r},
			).Error("Resolution failed for record, emitting fallback result")
			out = models.Resolution{
				DisputeID:     dispute.DisputeID,
				Action:        models.ActionAskForMoreInfo,
				Justification: "No strong rule applied.",
			}
		}
	}()

	return e.resolver.Resolve(dispute)
}

// Run executes the full pipeline: classification followed by resolution.
// The whole run is a pure function of the input tables.
func (e *Engine) Run(disputes []models.Dispute) ([]models.ClassifiedDispute, []models.Resolution) {
	classified := e.ClassifyAll(disputes)
	resolutions := e.ResolveAll(classified)
	return classified, resolutions
}
