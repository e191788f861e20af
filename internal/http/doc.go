// Package httpapp provides the HTTP server for the stanblog backend.
//
//	@title						Stanblog API
//	@version					1.0
//	@description				A minimal blogging backend: registration and login with hashed
//	@description				passwords, JWT cookie sessions, and post CRUD with a single cover
//	@description				image per post.
//	@description
//	@description				## Authentication
//	@description
//	@description				`POST /login` sets a signed session token in the `token` cookie.
//	@description				Post-mutating endpoints read the cookie; a missing or invalid token
//	@description				is answered with 401. `POST /logout` clears the cookie.
//	@description
//	@description				Uploaded cover images are served statically under `/uploads/`.
//
//	@contact.name				Stanblog
//	@license.name				MIT
//
//	@host						localhost:4000
//	@BasePath					/
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							header
//	@name						Cookie
//	@description				Session token cookie set by /login
//
//	@tag.name					Auth
//	@tag.description			Registration, login, logout, and profile lookup.
//
//	@tag.name					Posts
//	@tag.description			Create, update, and browse posts. Updates are restricted to the post's author.
//
//	@tag.name					Meta
//	@tag.description			Service metadata.
package httpapp
