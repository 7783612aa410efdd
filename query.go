package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Query returns the rows for which expression evaluates to true, in display
// order. Each row is bound as id, name, stock, price and index (zero-based
// position); qty and amount plus any registered functions are callable.
//
//	ed.Query(ctx, `qty(stock) < 5`)
//	ed.Query(ctx, `name startsWith "Barang"`)
func (e *Editor) Query(ctx context.Context, expression string) ([]Item, error) {
	return e.QueryWith(ctx, expression, nil)
}

// QueryWith is Query with caller parameters bound as args, so one compiled
// expression serves many thresholds:
//
//	ed.QueryWith(ctx, `qty(stock) < args.min`, map[string]any{"min": 5})
//
// Every row also sees metadata.count, metadata.seeded and
// metadata.snapshot_id describing the whole list.
func (e *Editor) QueryWith(ctx context.Context, expression string, args map[string]any) ([]Item, error) {
	if expression == "" {
		return nil, wrapOperationError("query", 0, fmt.Errorf("expression must not be empty"))
	}
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return nil, wrapOperationError("query", 0, err)
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()

	matches, evalErr := e.runQuery(ctx, evaluator, engine, expression, args)

	e.cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expression,
		Scope:    "query",
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, wrapOperationError("query", 0, evalErr)
	}
	return matches, nil
}

func (e *Editor) runQuery(ctx context.Context, evaluator Evaluator, engine, expression string, args map[string]any) ([]Item, error) {
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, wrapEvaluationError(engine, expression, "query", err)
	}
	e.mu.Lock()
	items := cloneItems(e.items)
	metadata := map[string]any{
		"count":       len(e.items),
		"seeded":      e.seeded,
		"snapshot_id": e.meta.SnapshotID,
	}
	e.mu.Unlock()
	if args == nil {
		args = map[string]any{}
	}
	now := time.Now()
	matches := make([]Item, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := "id=" + strconv.Itoa(item.ID)
		value, err := rule.Evaluate(RuleContext{
			Snapshot: ItemBindings(item, i),
			Now:      &now,
			Args:     args,
			Metadata: metadata,
			Label:    label,
		})
		if err != nil {
			return nil, wrapEvaluationError(engine, expression, label, err)
		}
		keep, ok := value.(bool)
		if !ok {
			return nil, wrapEvaluationError(engine, expression, label, fmt.Errorf("result must be bool, got %T", value))
		}
		if keep {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// ItemBindings returns the variables a query sees for item at index.
func ItemBindings(item Item, index int) map[string]any {
	return map[string]any{
		"id":    item.ID,
		"name":  item.Name,
		"stock": item.Stock.JSONValue(),
		"price": item.Price,
		"index": index,
	}
}

func (e *Editor) resolveEvaluator() (Evaluator, error) {
	e.evalOnce.Do(func() {
		if e.cfg.evaluator != nil {
			e.evaluator = e.cfg.evaluator
			return
		}
		registry := e.cfg.functions.merge(DefaultFunctions())
		e.evaluator, e.evalErr = NewEvaluator(e.cfg.engine, e.cfg.programCache, registry)
	})
	if e.evalErr != nil {
		return nil, e.evalErr
	}
	if e.evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return e.evaluator, nil
}
