package models

import "time"

type TagMethod string

const (
	MethodFelica TagMethod = "felica"
	MethodNFC    TagMethod = "nfc"
	MethodQR     TagMethod = "qr"
)

type DeviceKind string

const (
	KindDesktop DeviceKind = "desktop"
	KindTablet  DeviceKind = "tablet"
	KindMobile  DeviceKind = "mobile"
)

type Device struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       DeviceKind  `json:"kind"`
	Location   string      `json:"location"`
	Methods    []TagMethod `json:"methods"`
	Active     bool        `json:"active"`
	LastSeen   time.Time   `json:"last_seen"`
	Connection string      `json:"connection"` // online | offline
}

func (d *Device) SupportsMethod(m TagMethod) bool {
	for _, method := range d.Methods {
		if method == m {
			return true
		}
	}
	return false
}
