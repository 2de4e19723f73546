package flags

const (
	failedToReadFile            = "failed-to-read-file"
	failedToParseTLSCredentials = "failed-to-parse-tls-credentials"
	failedToOpenSQLConnection   = "failed-to-open-sql-connection"
)
