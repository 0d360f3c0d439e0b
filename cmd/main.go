package main

import "github.com/patomdq/wallest-operating-system-sub000/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustMigratePostgres()

	app.MustInitServices()

	app.MustStartReminderScheduler()
	defer app.StopReminderScheduler()

	app.MustListenAndServeHTTP()
}
