// Package cabinet defines the carcass data model: outer dimensions, panel
// thicknesses, the door/drawer accessory variant and the shelf list.
// Cabinet values are snapshots; every derived quantity (panels, holes,
// drawings) is recomputed from them by the downstream packages.
package cabinet
