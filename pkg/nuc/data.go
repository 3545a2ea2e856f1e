package nuc

// Fissile isotopes
const (
	U233  Nuc = 92233
	U235  Nuc = 92235
	Pu239 Nuc = 94239
	Pu241 Nuc = 94241
)

// Fertile isotopes
const (
	Th232 Nuc = 90232
	U238  Nuc = 92238
	Pu240 Nuc = 94240
)

// O18 has no data in the common continuous-energy libraries and is dropped
// from structural materials.
const O18 Nuc = 8018

// BurnOmit lists nuclides without transport data that the depletion solver
// must leave out of every burned material.
var BurnOmit = []Nuc{
	66159, 67163, 67164, 67166, 68163, 68165, 68169, 69166, 69167, 69171,
	69172, 69173, 70168, 70169, 70170, 70171, 70172, 70173, 70174, 6014,
	7016, 39087, 39092, 39093, 40089, 40097, 41091, 41092, 41096, 41097,
	41098, 41099, 42091, 42093, 70175, 70176, 71173, 71174, 71177, 72175,
	72181, 72182, 73179, 73183, 74179, 74181, 8018, 8019, 9018, 10021,
	12027, 13026, 13028, 14027, 14031, 16031, 16035, 16037, 17034, 17036,
	17038, 18037, 18039, 22051, 23047, 23048, 23049, 23052, 23053, 23054,
	24049, 24051, 24055, 24056, 25051, 25052, 25053, 25054, 25056, 25057,
	25058, 26053, 26055, 26059, 26060, 26061, 27057, 27060, 27061, 27062,
	27063, 27064, 28057, 28063, 28065, 29062, 29064, 29066,
}
