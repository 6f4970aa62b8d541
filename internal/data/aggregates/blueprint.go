package aggregates

import (
	"context"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
	"github.com/yungbote/blueprints-backend/internal/data/repos"
	"github.com/yungbote/blueprints-backend/internal/platform/dbctx"
)

type BlueprintAggregateDeps struct {
	Base       BaseDeps
	Blueprints repos.BlueprintRepo
	Points     repos.BlueprintPointRepo
}

type blueprintAggregate struct {
	deps BlueprintAggregateDeps
}

func NewBlueprintAggregate(deps BlueprintAggregateDeps) domainagg.BlueprintAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "BlueprintAggregate")
	return &blueprintAggregate{deps: deps}
}

func (a *blueprintAggregate) Contract() domainagg.Contract {
	return domainagg.BlueprintAggregateContract
}

func (a *blueprintAggregate) configured(op string) error {
	if a == nil || a.deps.Blueprints == nil || a.deps.Points == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "blueprint aggregate dependencies are not configured", nil)
	}
	return nil
}

func (a *blueprintAggregate) Save(ctx context.Context, in domainagg.SaveBlueprintInput) (domainagg.SaveBlueprintResult, error) {
	const op = "drawing.blueprint.save"
	out := domainagg.SaveBlueprintResult{}

	author, name, err := RequireBlueprintKey(in.Author, in.Name)
	if err != nil {
		return out, MapError(op, err)
	}
	if err := a.configured(op); err != nil {
		return out, err
	}

	var saved *types.Blueprint
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// No existence probe: idx_blueprint_author_name rejects the second
		// writer and the violation maps to CodeConflict.
		rows, err := a.deps.Blueprints.Create(dbc, []*types.Blueprint{{Author: author, Name: name}})
		if err != nil {
			return err
		}
		bp := rows[0]

		pts := make([]*types.BlueprintPoint, 0, len(in.Points))
		for i, p := range in.Points {
			pts = append(pts, &types.BlueprintPoint{
				BlueprintID: bp.ID,
				Ordinal:     i,
				X:           p.X,
				Y:           p.Y,
			})
		}
		if _, err := a.deps.Points.Create(dbc, pts); err != nil {
			return err
		}

		bp.Points = make([]types.BlueprintPoint, 0, len(pts))
		for _, p := range pts {
			bp.Points = append(bp.Points, *p)
		}
		saved = bp
		return nil
	})
	if err != nil {
		return out, err
	}
	out.Blueprint = saved
	return out, nil
}

func (a *blueprintAggregate) FindByAuthorAndName(ctx context.Context, author, name string) (*types.Blueprint, error) {
	const op = "drawing.blueprint.find_by_author_and_name"
	author, name, err := RequireBlueprintKey(author, name)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *types.Blueprint
	err = executeRead(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Blueprints.GetByAuthorAndName(dbc, author, name)
		out = row
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *blueprintAggregate) FindByAuthor(ctx context.Context, author string) ([]*types.Blueprint, error) {
	const op = "drawing.blueprint.find_by_author"
	author, err := RequireAuthor(author)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out []*types.Blueprint
	err = executeRead(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rows, err := a.deps.Blueprints.ListByAuthor(dbc, author)
		out = rows
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*types.Blueprint{}
	}
	return out, nil
}

func (a *blueprintAggregate) FindAll(ctx context.Context) ([]*types.Blueprint, error) {
	const op = "drawing.blueprint.find_all"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out []*types.Blueprint
	err := executeRead(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rows, err := a.deps.Blueprints.ListAll(dbc)
		out = rows
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*types.Blueprint{}
	}
	return out, nil
}

func (a *blueprintAggregate) AppendPoint(ctx context.Context, in domainagg.AppendPointInput) (domainagg.AppendPointResult, error) {
	const op = "drawing.blueprint.append_point"
	out := domainagg.AppendPointResult{}

	author, name, err := RequireBlueprintKey(in.Author, in.Name)
	if err != nil {
		return out, MapError(op, err)
	}
	if err := a.configured(op); err != nil {
		return out, err
	}

	var (
		updated *types.Blueprint
		ordinal int
	)
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// The row lock orders concurrent appends to the same blueprint;
		// MAX(ordinal) is read only after it is held.
		bp, err := a.deps.Blueprints.LockByAuthorAndName(dbc, author, name)
		if err != nil {
			return err
		}
		if err := RequireFound(bp != nil, "blueprint %s/%s", author, name); err != nil {
			return err
		}

		last, err := a.deps.Points.MaxOrdinal(dbc, bp.ID)
		if err != nil {
			return err
		}
		ordinal = last + 1
		if _, err := a.deps.Points.Create(dbc, []*types.BlueprintPoint{{
			BlueprintID: bp.ID,
			Ordinal:     ordinal,
			X:           in.X,
			Y:           in.Y,
		}}); err != nil {
			return err
		}
		if err := a.deps.Blueprints.Touch(dbc, bp.ID); err != nil {
			return err
		}

		updated, err = a.deps.Blueprints.GetByAuthorAndName(dbc, author, name)
		if err != nil {
			return err
		}
		return RequireFound(updated != nil, "blueprint %s/%s", author, name)
	})
	if err != nil {
		return out, err
	}
	out.Blueprint = updated
	out.Ordinal = ordinal
	return out, nil
}

func (a *blueprintAggregate) Remove(ctx context.Context, author, name string) error {
	const op = "drawing.blueprint.remove"
	author, name, err := RequireBlueprintKey(author, name)
	if err != nil {
		return MapError(op, err)
	}
	if err := a.configured(op); err != nil {
		return err
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		bp, err := a.deps.Blueprints.LockByAuthorAndName(dbc, author, name)
		if err != nil {
			return err
		}
		if err := RequireFound(bp != nil, "blueprint %s/%s", author, name); err != nil {
			return err
		}
		if _, err := a.deps.Points.DeleteByBlueprintID(dbc, bp.ID); err != nil {
			return err
		}
		n, err := a.deps.Blueprints.DeleteByID(dbc, bp.ID)
		if err != nil {
			return err
		}
		return RequireRowsAffected(n, 1, "delete blueprint")
	})
}
