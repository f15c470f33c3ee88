package main

import (
	"log"
	"net/http"
	"os"

	"github.com/edupath/dashclient/client/auth/mock"
	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
)

type Options struct {
	Addr          string   `short:"a" long:"addr" description:"listen address" default:"127.0.0.1:8000"`
	AdminEmail    string   `long:"admin-email" description:"seeded admin email" default:"admin@example.com"`
	AdminPassword string   `long:"admin-password" description:"seeded admin password" default:"password"`
	OTP           string   `long:"otp" description:"accepted one-time password" default:"123456"`
	Verbose       bool     `short:"v" long:"verbose" description:"log requests"`
	CorsOrigins   []string `long:"cors-origin" description:"allowed browser origin, repeatable"`
}

func main() {
	options := &Options{}
	if _, err := flags.ParseArgs(options, os.Args[1:]); err != nil {
		os.Exit(1)
	}
	gin.SetMode(gin.ReleaseMode)
	backendOptions := []mock.Option{mock.WithOTP(options.OTP)}
	if options.Verbose {
		backendOptions = append(backendOptions, mock.WithRequestLogging())
	}
	if len(options.CorsOrigins) > 0 {
		cors := mock.DefaultCors()
		cors.AllowOrigins = options.CorsOrigins
		backendOptions = append(backendOptions, mock.WithCors(cors))
	}
	backend, err := mock.NewBackend(backendOptions...)
	if err != nil {
		log.Fatal(err)
	}
	if _, err = backend.AddUser(options.AdminEmail, options.AdminPassword, "ADMIN", "Admin", "User"); err != nil {
		log.Fatal(err)
	}
	log.Printf("dashboard mock API listening on http://%v%v", options.Addr, mock.BasePath)
	log.Fatal(http.ListenAndServe(options.Addr, backend.Handler()))
}
