// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

// Company is an organization users and admins belong to.
type Company struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Admin is a support operator as listed by the identity service.
type Admin struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Surname    string    `json:"surname"`
	Name       string    `json:"name"`
	Middlename *string   `json:"middlename"`
	Department *string   `json:"department"`
	Phone      *string   `json:"phone"`
	Cellular   *string   `json:"cellular"`
	Post       *string   `json:"post"`
	Companies  []Company `json:"companies"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// DisplayName is "surname name middlename" with absent parts skipped.
func (a Admin) DisplayName() string {
	return joinName(a.Surname, a.Name, a.Middlename)
}

// User is a customer as listed by the identity service.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Surname         string    `json:"surname"`
	Name            string    `json:"name"`
	Middlename      *string   `json:"middlename"`
	Department      *string   `json:"department"`
	LocalWorkplace  *string   `json:"local_workplace"`
	RemoteWorkplace *string   `json:"remote_workplace"`
	Phone           *string   `json:"phone"`
	Cellular        *string   `json:"cellular"`
	Post            *string   `json:"post"`
	CompanyID       int64     `json:"company_id"`
	Company         *Company  `json:"company"`
	CreatedAt       Timestamp `json:"created_at"`
	UpdatedAt       Timestamp `json:"updated_at"`
}

// DisplayName is "surname name middlename" with absent parts skipped.
func (u User) DisplayName() string {
	return joinName(u.Surname, u.Name, u.Middlename)
}

// CompanyName is the company's username, or empty when the user has
// none attached.
func (u User) CompanyName() string {
	if u.Company == nil {
		return ""
	}
	return u.Company.Username
}

// Profile is the signed-in user as returned by the profile endpoint.
type Profile = User

func joinName(surname, name string, middlename *string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{surname, name, deref(middlename)} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
