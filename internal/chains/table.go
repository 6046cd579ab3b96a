package chains

// defaultTable lists every chain that appears in supported marketplace URL
// paths. Rarible spells chains one way, OpenSea sometimes another; both
// spellings live here as aliases of the same canonical name.
var defaultTable = []Chain{
	{Name: "ETHEREUM", Aliases: []string{"ethereum", "eth"}},
	{Name: "POLYGON", Aliases: []string{"polygon", "matic"}},
	{Name: "ARBITRUM", Aliases: []string{"arbitrum"}},
	{Name: "OPTIMISM", Aliases: []string{"optimism"}},
	{Name: "BASE", Aliases: []string{"base"}},
	{Name: "MANTLE", Aliases: []string{"mantle"}},
	{Name: "IMMUTABLEX", Aliases: []string{"immutablex"}},
	{Name: "FLOW", Aliases: []string{"flow"}},
	{Name: "CHILIZ", Aliases: []string{"chiliz"}},
	{Name: "LIGHTLINK", Aliases: []string{"lightlink"}},
	{Name: "CELO", Aliases: []string{"celo"}},
	{Name: "ZKSYNC", Aliases: []string{"zksync"}},
	{Name: "RARI", Aliases: []string{"rari"}},
	{Name: "ASTARZKEVM", Aliases: []string{"astarzkevm"}},
	{Name: "KROMA", Aliases: []string{"kroma"}},
	{Name: "XAI", Aliases: []string{"xai"}},
	{Name: "SEI", Aliases: []string{"sei"}},
	{Name: "OASYS", Aliases: []string{"oasys"}},
	{Name: "SAAKURU", Aliases: []string{"saakuru"}},
	{Name: "PALM", Aliases: []string{"palm"}},
	{Name: "LISK", Aliases: []string{"lisk"}},
	{Name: "ETHERLINK", Aliases: []string{"etherlink"}},
	{Name: "MOONBEAM", Aliases: []string{"moonbeam"}},
	{Name: "FIVIRE", Aliases: []string{"fivire"}},
	{Name: "MATCH", Aliases: []string{"match"}},
	{Name: "ALEPHZERO", Aliases: []string{"alephzero"}},
	{Name: "APTOS", Aliases: []string{"aptos"}},
	{Name: "SHAPE", Aliases: []string{"shape"}},
	{Name: "ECLIPSE", Aliases: []string{"eclipse"}},
	{Name: "TELOS", Aliases: []string{"telos"}},
	{Name: "SOLANA", Aliases: []string{"solana"}},
	{Name: "ABSTRACT", Aliases: []string{"abstract"}},
	{Name: "BERACHAIN", Aliases: []string{"berachain"}},
	{Name: "APECHAIN", Aliases: []string{"apechain"}},
	{Name: "ARENAZ", Aliases: []string{"arenaz"}},
	{Name: "BASECAMPTESTNET", Aliases: []string{"basecamptestnet"}},
	{Name: "CROSSFI", Aliases: []string{"crossfi"}},
	{Name: "GOAT", Aliases: []string{"goat"}},
	{Name: "HEDERAEVM", Aliases: []string{"hederaevm"}},
	{Name: "HYPEREVM", Aliases: []string{"hyperevm"}},
	{Name: "MEGAETHTESTNET", Aliases: []string{"megaethtestnet"}},
	{Name: "SETTLUS", Aliases: []string{"settlus"}},
	{Name: "SOMNIATESTNET", Aliases: []string{"somniatestnet"}},
	{Name: "VICTION", Aliases: []string{"viction"}},
	{Name: "ZKCANDY", Aliases: []string{"zkcandy"}},
}

// defaultRegistry is the process-wide registry built from defaultTable.
var defaultRegistry = mustNewRegistry(defaultTable)

func mustNewRegistry(table []Chain) *Registry {
	r, err := NewRegistry(table)
	if err != nil {
		// The static table is part of the program; a collision in it is a
		// programming error, not an input error.
		panic(err)
	}

	return r
}

// Default returns the registry built from the static chain table.
func Default() *Registry {
	return defaultRegistry
}

// Resolve resolves a slug against the default registry.
func Resolve(slug string) (string, bool) {
	return defaultRegistry.Resolve(slug)
}
