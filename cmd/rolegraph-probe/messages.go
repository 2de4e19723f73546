package main

const (
	starting = "starting"
	finished = "finished"

	failedToConnectToStatsD = "failed-to-connect-to-statsd"
	failedToApplyMigrations = "failed-to-apply-migrations"
)
