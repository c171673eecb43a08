package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Username: uname})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			CreatedAt: now,
		}
	}
	if email != "" {
		usr.Email = email
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	if usr, err = cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	cli.logger.Info(fmt.Sprintf("user %q saved (id %d)", usr.Username, usr.ID))
	return nil
}
