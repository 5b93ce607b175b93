package comp

// championCategories is the built-in champion roster, keyed by the API-style
// champion name with the primary Data Dragon tag as the category. The table
// is a snapshot; RefreshFromDataDragon pulls the current one at runtime.
var championCategories = map[string]Category{
	"Aatrox":       CategoryFighter,
	"Ahri":         CategoryMage,
	"Akali":        CategoryAssassin,
	"Akshan":       CategoryMarksman,
	"Alistar":      CategoryTank,
	"Ambessa":      CategoryFighter,
	"Amumu":        CategoryTank,
	"Anivia":       CategoryMage,
	"Annie":        CategoryMage,
	"Aphelios":     CategoryMarksman,
	"Ashe":         CategoryMarksman,
	"AurelionSol":  CategoryMage,
	"Aurora":       CategoryMage,
	"Azir":         CategoryMage,
	"Bard":         CategorySupport,
	"Belveth":      CategoryFighter,
	"Blitzcrank":   CategoryTank,
	"Brand":        CategoryMage,
	"Braum":        CategorySupport,
	"Briar":        CategoryFighter,
	"Caitlyn":      CategoryMarksman,
	"Camille":      CategoryFighter,
	"Cassiopeia":   CategoryMage,
	"Chogath":      CategoryTank,
	"Corki":        CategoryMarksman,
	"Darius":       CategoryFighter,
	"Diana":        CategoryFighter,
	"DrMundo":      CategoryFighter,
	"Draven":       CategoryMarksman,
	"Ekko":         CategoryAssassin,
	"Elise":        CategoryMage,
	"Evelynn":      CategoryAssassin,
	"Ezreal":       CategoryMarksman,
	"Fiddlesticks": CategoryMage,
	"Fiora":        CategoryFighter,
	"Fizz":         CategoryAssassin,
	"Galio":        CategoryTank,
	"Gangplank":    CategoryFighter,
	"Garen":        CategoryFighter,
	"Gnar":         CategoryFighter,
	"Gragas":       CategoryFighter,
	"Graves":       CategoryMarksman,
	"Gwen":         CategoryFighter,
	"Hecarim":      CategoryFighter,
	"Heimerdinger": CategoryMage,
	"Hwei":         CategoryMage,
	"Illaoi":       CategoryFighter,
	"Irelia":       CategoryFighter,
	"Ivern":        CategorySupport,
	"Janna":        CategorySupport,
	"JarvanIV":     CategoryTank,
	"Jax":          CategoryFighter,
	"Jayce":        CategoryFighter,
	"Jhin":         CategoryMarksman,
	"Jinx":         CategoryMarksman,
	"KSante":       CategoryTank,
	"Kaisa":        CategoryMarksman,
	"Kalista":      CategoryMarksman,
	"Karma":        CategoryMage,
	"Karthus":      CategoryMage,
	"Kassadin":     CategoryAssassin,
	"Katarina":     CategoryAssassin,
	"Kayle":        CategoryFighter,
	"Kayn":         CategoryFighter,
	"Kennen":       CategoryMage,
	"Khazix":       CategoryAssassin,
	"Kindred":      CategoryMarksman,
	"Kled":         CategoryFighter,
	"KogMaw":       CategoryMarksman,
	"Leblanc":      CategoryAssassin,
	"LeeSin":       CategoryFighter,
	"Leona":        CategoryTank,
	"Lillia":       CategoryFighter,
	"Lissandra":    CategoryMage,
	"Lucian":       CategoryMarksman,
	"Lulu":         CategorySupport,
	"Lux":          CategoryMage,
	"Malphite":     CategoryTank,
	"Malzahar":     CategoryMage,
	"Maokai":       CategoryTank,
	"MasterYi":     CategoryAssassin,
	"Mel":          CategoryMage,
	"Milio":        CategorySupport,
	"MissFortune":  CategoryMarksman,
	"MonkeyKing":   CategoryFighter,
	"Mordekaiser":  CategoryFighter,
	"Morgana":      CategoryMage,
	"Naafiri":      CategoryAssassin,
	"Nami":         CategorySupport,
	"Nasus":        CategoryFighter,
	"Nautilus":     CategoryTank,
	"Neeko":        CategoryMage,
	"Nidalee":      CategoryAssassin,
	"Nilah":        CategoryFighter,
	"Nocturne":     CategoryAssassin,
	"Nunu":         CategoryTank,
	"Olaf":         CategoryFighter,
	"Orianna":      CategoryMage,
	"Ornn":         CategoryTank,
	"Pantheon":     CategoryFighter,
	"Poppy":        CategoryTank,
	"Pyke":         CategorySupport,
	"Qiyana":       CategoryAssassin,
	"Quinn":        CategoryMarksman,
	"Rakan":        CategorySupport,
	"Rammus":       CategoryTank,
	"RekSai":       CategoryFighter,
	"Rell":         CategoryTank,
	"Renata":       CategorySupport,
	"Renekton":     CategoryFighter,
	"Rengar":       CategoryAssassin,
	"Riven":        CategoryFighter,
	"Rumble":       CategoryFighter,
	"Ryze":         CategoryMage,
	"Samira":       CategoryMarksman,
	"Sejuani":      CategoryTank,
	"Senna":        CategoryMarksman,
	"Seraphine":    CategoryMage,
	"Sett":         CategoryFighter,
	"Shaco":        CategoryAssassin,
	"Shen":         CategoryTank,
	"Shyvana":      CategoryFighter,
	"Singed":       CategoryTank,
	"Sion":         CategoryTank,
	"Sivir":        CategoryMarksman,
	"Skarner":      CategoryFighter,
	"Smolder":      CategoryMarksman,
	"Sona":         CategorySupport,
	"Soraka":       CategorySupport,
	"Swain":        CategoryMage,
	"Sylas":        CategoryMage,
	"Syndra":       CategoryMage,
	"TahmKench":    CategorySupport,
	"Taliyah":      CategoryMage,
	"Talon":        CategoryAssassin,
	"Taric":        CategorySupport,
	"Teemo":        CategoryMarksman,
	"Thresh":       CategorySupport,
	"Tristana":     CategoryMarksman,
	"Trundle":      CategoryFighter,
	"Tryndamere":   CategoryFighter,
	"TwistedFate":  CategoryMage,
	"Twitch":       CategoryMarksman,
	"Udyr":         CategoryFighter,
	"Urgot":        CategoryFighter,
	"Varus":        CategoryMarksman,
	"Vayne":        CategoryMarksman,
	"Veigar":       CategoryMage,
	"Velkoz":       CategoryMage,
	"Vex":          CategoryMage,
	"Vi":           CategoryFighter,
	"Viego":        CategoryAssassin,
	"Viktor":       CategoryMage,
	"Vladimir":     CategoryMage,
	"Volibear":     CategoryFighter,
	"Warwick":      CategoryFighter,
	"Xayah":        CategoryMarksman,
	"Xerath":       CategoryMage,
	"XinZhao":      CategoryFighter,
	"Yasuo":        CategoryFighter,
	"Yone":         CategoryAssassin,
	"Yorick":       CategoryFighter,
	"Yuumi":        CategorySupport,
	"Zac":          CategoryTank,
	"Zed":          CategoryAssassin,
	"Zeri":         CategoryMarksman,
	"Ziggs":        CategoryMage,
	"Zilean":       CategorySupport,
	"Zoe":          CategoryMage,
	"Zyra":         CategoryMage,
}
