package commands

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// mutateOrder loads one order, applies change and persists it in its own transaction.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	id kernel.UUID,
	change func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(o); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
