// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package restapi

import (
	"context"

	"github.com/scire-project/scire/lib/schema"
)

// Admins lists every admin.
func (c *Client) Admins(ctx context.Context) ([]schema.Admin, error) {
	return getJSON[[]schema.Admin](ctx, c, c.endpoints.Identity, "/admins/", "/admins/")
}

// Users lists every user.
func (c *Client) Users(ctx context.Context) ([]schema.User, error) {
	return getJSON[[]schema.User](ctx, c, c.endpoints.Identity, "/users/", "/users/")
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (schema.Profile, error) {
	return getJSON[schema.Profile](ctx, c, c.endpoints.Identity, "/users/profile", "/users/profile")
}
