package conf

// MaxDepth - The widest usable depth, in bits, when masking hash values for directory indexing.
// A local depth at this width means every hash bit is already consulted and deeper splitting can
// not separate keys any further.
const MaxDepth int = 64
