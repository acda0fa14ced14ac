package output

// DefaultAssumptions lists key modeling conventions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Interest credits monthly at (1 + annual rate)^(1/12) - 1",
	"Withdrawals occur in the first month of policy years 2 and later",
	"Surrender charges and MVA apply only to the excess over the free withdrawal allowance",
	"Account and surrender values never fall below the greater of the MFV and PFV guarantee funds",
	"CARVM paths renew at the product's minimum guaranteed rate and run to the valuation max age",
	"Reserve is the greatest year-1 reserve across behavior paths",
}
