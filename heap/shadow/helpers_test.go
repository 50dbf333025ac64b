package shadow

import "github.com/joshuapare/kheap/heap/region"

func regionAddr(a uint64) region.Addr { return region.Addr(a) }
