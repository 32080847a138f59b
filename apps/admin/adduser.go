package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			Role:      access.RoleTeacher,
			CreatedAt: time.Now().UTC(),
		}
	} else {
		usr.Name = name
	}
	if isAdmin {
		usr.Role = access.RoleAdmin
	}
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
