package hclconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level body of a configuration file.
type fileRoot struct {
	PhysicalDevices []*physicalDeviceBlock `hcl:"physical_device,block"`
	VirtualDevices  []*virtualDeviceBlock  `hcl:"virtual_device,block"`
}

type physicalDeviceBlock struct {
	Label     string         `hcl:"label,label"`
	Path      string         `hcl:"path,optional"`
	VendorID  hcl.Expression `hcl:"vendor_id,optional"`
	ProductID hcl.Expression `hcl:"product_id,optional"`
}

type virtualDeviceBlock struct {
	Label     string         `hcl:"label,label"`
	Name      string         `hcl:"name,optional"`
	VendorID  hcl.Expression `hcl:"vendor_id,optional"`
	ProductID hcl.Expression `hcl:"product_id,optional"`
	Backend   string         `hcl:"backend,optional"`
	SocketIO  *socketIOBlock `hcl:"socketio,block"`
	Axes      []*axisBlock   `hcl:"axis,block"`
}

type socketIOBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

type axisBlock struct {
	Label string         `hcl:"label,label"`
	Min   hcl.Expression `hcl:"min"`
	Max   hcl.Expression `hcl:"max"`
	Expr  hcl.Expression `hcl:"expr"`
}
