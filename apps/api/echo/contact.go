package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core/contact"
	"github.com/elimu-app/elimu/core/user"
)

type contactApi struct {
	svc      contact.Service
	usrSvc   user.Service
	validate *validator.Validate
}

// The /api/contact prefix is public so the marketing site can POST without a
// session; everything except submit therefore re-checks the session claims
// by hand.
func registerContactAPI(app *echo.Echo, svc contact.Service, usrSvc user.Service, validate *validator.Validate) {
	api := contactApi{svc: svc, usrSvc: usrSvc, validate: validate}

	g := app.Group("/api/contact")
	g.POST("", api.submit)
	g.GET("", api.query)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.markRead)
	g.POST("/:id/reply", api.reply)
	g.DELETE("/:id", api.destroy)
}

func (api *contactApi) submit(ctx echo.Context) error {
	var data contact.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting message")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"reference": msg.Reference})
}

func (api *contactApi) query(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return errUnauthorized
	}

	filter := new(contact.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"messages": []contact.Message{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	msgs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []contact.Message{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

func (api *contactApi) retrieve(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return errUnauthorized
	}

	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	msg, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding message by ID")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg})
}

func (api *contactApi) markRead(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return errUnauthorized
	}

	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.MarkRead(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking message read")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Message marked as read."})
}

func (api *contactApi) reply(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return errUnauthorized
	}

	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data contact.NewReply
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sender, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rpl, err := api.svc.Reply(ctx.Request().Context(), id, data, sender)
	if err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "replying to message")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"reply": rpl})
}

func (api *contactApi) destroy(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return errUnauthorized
	}

	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}
