package flags

import (
	"net"
	"strconv"

	"github.com/cactus/go-statsd-client/statsd"
)

type StatsDFlag struct {
	Hostname string `long:"hostname" default:"localhost" description:"Hostname used to connect to StatsD server"`
	Port     int    `long:"port" default:"8125" description:"Port used to connect to StatsD server"`
}

func (f StatsDFlag) Statter(prefix string) (statsd.Statter, error) {
	addr := net.JoinHostPort(f.Hostname, strconv.Itoa(f.Port))

	return statsd.NewClient(addr, prefix)
}
