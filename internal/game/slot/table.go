package slot

// StandardMoves 标准结果表
// 顺序决定累积概率区间，修改时注意概率总和必须为1
func StandardMoves(symbols *SymbolRegistry) []MoveSpec {
	var (
		a = symbols.MustGet(SymbolPunch.ID)
		b = symbols.MustGet(SymbolSword.ID)
		c = symbols.MustGet(SymbolBoomerang.ID)
		d = symbols.MustGet(SymbolTronium.ID)
	)

	// ID, PROB, PAYOUT, DAMAGE, EPICNESS, LAYOUT, SOUND, WIN MSG
	return []MoveSpec{
		{"1S4*", 0.0015, 30, 45, 333, ScatterRow, SoundScatter, "Wizards weren't joking with this!"},
		{"3A2T", 0.0600, 0.5, 4, 8, ThreeOfKind(a), SoundPunch, "Eat it grunt!"},
		{"3B2T", 0.0500, 0.7, 7, 10, ThreeOfKind(b), SoundSword, "Taste my steel"},
		{"3C2T", 0.0400, 1.2, 14, 13, ThreeOfKind(c), SoundBoomerang, "Swift Troomerang!"},
		{"3D2T", 0.0080, 7.7, 29, 63, ThreeOfKind(d), SoundTronium, "I found Tronium!"},
		{"4A1T", 0.0312, 1, 5, 16, FourOfKind(a), SoundPunch, "Squishy sand bag!"},
		{"4B1T", 0.0260, 1.4, 9, 19, FourOfKind(b), SoundSword, "I'm gonna chop you!"},
		{"4C1T", 0.0208, 2.4, 19, 24, FourOfKind(c), SoundBoomerang, "Twisted just like you grunts!"},
		{"4D1T", 0.0042, 15.4, 38, 120, FourOfKind(d), SoundTronium, "I'm the tronium hunter"},
		{"5A", 0.0150, 2.5, 6, 33, FullKind(a), SoundPunch, "Somersault and punch!"},
		{"5B", 0.0125, 3.5, 12.5, 40, FullKind(b), SoundSword, "Chop chop chop potato"},
		{"5C", 0.0100, 18, 25, 50, FullKind(c), SoundBoomerang, "and that my friends.. is a headshot!"},
		{"5D", 0.0020, 50, 50, 250, FullKind(d), SoundTronium, "Tronia wants me to win!"},
		{"3A2B", 0.0080, 0.9, 9, 63, ThreeAndTwo(a, b), SoundPunch, "You won't escape this!"},
		{"3A2C", 0.0072, 1.1, 15, 69, ThreeAndTwo(a, c), SoundPunch, "and that my friends.. is a headshot!"},
		{"3A2D", 0.0065, 4.4, 26, 77, ThreeAndTwo(a, d), SoundPunch, "Tronium overcharge!"},
		{"3B2A", 0.0067, 1, 10, 75, ThreeAndTwo(b, a), SoundSword, "Steady blade!"},
		{"3B2C", 0.0060, 1.3, 18, 83, ThreeAndTwo(b, c), SoundSword, "Hits like an eagle with steel claws!"},
		{"3B2D", 0.0054, 4.6, 29, 93, ThreeAndTwo(b, d), SoundSword, "Tronium overcharge!"},
		{"3C2A", 0.0053, 1.5, 17, 94, ThreeAndTwo(c, a), SoundBoomerang, "Take that you grunt!"},
		{"3C2B", 0.0048, 1.6, 19, 104, ThreeAndTwo(c, b), SoundBoomerang, "Gonna chop you like a chainsaw!"},
		{"3C2D", 0.0043, 5.1, 36, 116, ThreeAndTwo(c, d), SoundBoomerang, "Tronium overcharge!"},
		{"3D2A", 0.0011, 8, 32, 469, ThreeAndTwo(d, a), SoundTronium, "Tronium overcharge!"},
		{"3D2B", 0.0010, 8.1, 34, 521, ThreeAndTwo(d, b), SoundTronium, "Tronium overcharge!"},
		{"3D2C", 0.0009, 8.3, 40, 579, ThreeAndTwo(d, c), SoundTronium, "Tronium overcharge!"},
		{"3ABCD1SN1T", 0.1000, 0, 0, 100, ThreeAttackNegScatter, SoundBlock, "Enemy dodge"},
		{"4ABCD1SN", 0.0500, 0, 0, 150, FourAttackNegScatter, SoundBlock, "Enemy dodge"},
		{"2ABCD3T", 0.1000, 0, 0, 0, TwoAttackThreeTrash, SoundTrash, "Almost hit"},
		{"1ABCD4T", 0.1000, 0, 0, 0, OneAttackFourTrash, SoundTrash, "He blocked the attacks!"},
		{"2ABCD1NP2T", 0.0500, 0, 0, 0, PairSingleTwoTrash, SoundTrash, "Very close"},
		{"2ABCD2NP1T", 0.0500, 0, 0, 0, TwoPairsOneTrash, SoundTrash, "Darn lizard!"},
		{"5T", 0.2116, 0, 0, 0, AllTrash, SoundTrash, "That grunt threw dust at my face"},
	}
}
