// Package hclconfig provides the HCL implementation of config.Loader.
//
// A configuration file declares physical devices and virtual devices:
//
//	physical_device "stick" {
//	  path = "/dev/input/event5"
//	}
//
//	physical_device "pedals" {
//	  vendor_id  = "0x06a3"
//	  product_id = 1891
//	}
//
//	virtual_device "combined" {
//	  name    = "Combined Controls"
//	  backend = "uinput"
//
//	  axis "X" {
//	    min  = -32768
//	    max  = 32767
//	    expr = "stick:X"
//	  }
//	}
//
// Numeric ids may be given as numbers or as strings with a 0x prefix.
// Expression errors are reported against the source range of the expr
// attribute.
package hclconfig
