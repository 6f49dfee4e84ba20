// Package wifi wraps the nl80211 client with the two operations the
// sensor node needs: associating to an access point and reading the
// current signal strength of that association.
package wifi

import (
	"time"

	"github.com/juju/errors"
	mdwifi "github.com/mdlayher/wifi"
)

// Client is bound to one wireless interface for the process lifetime.
type Client struct {
	c   *mdwifi.Client
	ifi *mdwifi.Interface
}

// Dial opens the netlink client and binds to the named interface. An
// empty name picks the first station-capable interface.
func Dial(ifname string) (*Client, error) {
	c, err := mdwifi.New()
	if err != nil {
		return nil, errors.Annotate(err, "wifi: open nl80211")
	}
	ifis, err := c.Interfaces()
	if err != nil {
		c.Close()
		return nil, errors.Annotate(err, "wifi: list interfaces")
	}
	for _, ifi := range ifis {
		if ifi.Name == "" {
			continue
		}
		if ifname == "" || ifi.Name == ifname {
			return &Client{c: c, ifi: ifi}, nil
		}
	}
	c.Close()
	return nil, errors.Errorf("wifi: interface %q not found", ifname)
}

// Connect associates to ssid (WPA-PSK when password is non-empty) and
// waits up to timeout for the association to come up. The boolean reports
// whether the link is associated; a false return with nil error means the
// timeout elapsed without an association.
func (c *Client) Connect(ssid, password string, timeout time.Duration) (bool, error) {
	var err error
	if password == "" {
		err = c.c.Connect(c.ifi, ssid)
	} else {
		err = c.c.ConnectWPAPSK(c.ifi, ssid, password)
	}
	if err != nil {
		return false, errors.Annotatef(err, "wifi: connect %q", ssid)
	}

	deadline := time.Now().Add(timeout)
	for {
		if _, err := c.c.BSS(c.ifi); err == nil {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Strength returns the current RSSI of the association in dBm.
func (c *Client) Strength() (int32, error) {
	infos, err := c.c.StationInfo(c.ifi)
	if err != nil {
		return 0, errors.Annotate(err, "wifi: station info")
	}
	if len(infos) == 0 {
		return 0, errors.New("wifi: not associated")
	}
	return int32(infos[0].Signal), nil
}

func (c *Client) Close() error {
	return c.c.Close()
}
