package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/autodevstack/docs.go -o docs`.
//
// @title           autodevstack API
// @version         1.0
// @description     HTTP API for model selection and Hugging Face inference.
//
// @contact.name   autodevstack maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
