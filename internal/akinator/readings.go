package akinator

// readingPairs maps written forms to their kana reading. The table is
// consulted in both directions when comparing guesses.
var readingPairs = [][2]string{
	{"事件", "じけん"}, {"砂漠", "さばく"}, {"茶", "ちゃ"}, {"お茶", "おちゃ"},
	{"水", "みず"}, {"人", "ひと"}, {"学校", "がっこう"}, {"会社", "かいしゃ"},
	{"家族", "かぞく"}, {"友達", "ともだち"}, {"先生", "せんせい"}, {"学生", "がくせい"},
	{"仕事", "しごと"}, {"時間", "じかん"}, {"場所", "ばしょ"}, {"問題", "もんだい"},
	{"答え", "こたえ"}, {"質問", "しつもん"}, {"説明", "せつめい"}, {"練習", "れんしゅう"},
	{"試験", "しけん"}, {"宿題", "しゅくだい"}, {"部屋", "へや"}, {"建物", "たてもの"},
	{"車", "くるま"}, {"電車", "でんしゃ"}, {"飛行機", "ひこうき"}, {"船", "ふね"},
	{"動物", "どうぶつ"}, {"植物", "しょくぶつ"}, {"食べ物", "たべもの"}, {"飲み物", "のみもの"},
	{"服", "ふく"}, {"靴", "くつ"}, {"帽子", "ぼうし"}, {"鞄", "かばん"},
	{"本", "ほん"}, {"新聞", "しんぶん"}, {"雑誌", "ざっし"}, {"映画", "えいが"},
	{"音楽", "おんがく"}, {"電話", "でんわ"}, {"携帯", "けいたい"}, {"時計", "とけい"},
	{"鍵", "かぎ"}, {"財布", "さいふ"}, {"お金", "おかね"}, {"切符", "きっぷ"},
	{"切手", "きって"}, {"手紙", "てがみ"}, {"住所", "じゅうしょ"}, {"番地", "ばんち"},
	{"郵便番号", "ゆうびんばんごう"}, {"国", "くに"}, {"県", "けん"}, {"市", "し"},
	{"町", "まち"}, {"村", "むら"}, {"駅", "えき"}, {"空港", "くうこう"},
	{"港", "みなと"}, {"公園", "こうえん"}, {"図書館", "としょかん"}, {"博物館", "はくぶつかん"},
	{"美術館", "びじゅつかん"}, {"映画館", "えいがかん"}, {"喫茶店", "きっさてん"}, {"銀行", "ぎんこう"},
	{"郵便局", "ゆうびんきょく"}, {"病院", "びょういん"}, {"薬局", "やっきょく"}, {"警察署", "けいさつしょ"},
	{"消防署", "しょうぼうしょ"},

	{"猫", "ねこ"}, {"犬", "いぬ"}, {"傘", "かさ"}, {"林檎", "りんご"},
	{"椅子", "いす"}, {"山", "やま"}, {"鏡", "かがみ"}, {"自転車", "じてんしゃ"},
	{"辞書", "じしょ"}, {"石鹸", "せっけん"}, {"人形", "にんぎょう"}, {"鉛筆", "えんぴつ"},
	{"冷蔵庫", "れいぞうこ"}, {"花瓶", "かびん"}, {"植木鉢", "うえきばち"}, {"消しゴム", "けしごむ"},
	{"封筒", "ふうとう"}, {"歯ブラシ", "はぶらし"}, {"望遠鏡", "ぼうえんきょう"}, {"灯台", "とうだい"},
	{"扇風機", "せんぷうき"}, {"絨毯", "じゅうたん"}, {"温泉", "おんせん"}, {"掃除機", "そうじき"},
	{"湯飲み", "ゆのみ"}, {"湯呑み", "ゆのみ"}, {"郵便受け", "ゆうびんうけ"}, {"羅針盤", "らしんばん"},
	{"屏風", "びょうぶ"}, {"風鈴", "ふうりん"}, {"顕微鏡", "けんびきょう"}, {"提灯", "ちょうちん"},
	{"盆栽", "ぼんさい"}, {"瓦", "かわら"}, {"暖簾", "のれん"},

	// classification labels, so kana questions are recognised too
	{"生き物", "いきもの"}, {"人間", "にんげん"}, {"果物", "くだもの"}, {"野菜", "やさい"},
	{"お菓子", "おかし"}, {"道具", "どうぐ"}, {"機械", "きかい"}, {"乗り物", "のりもの"},
	{"家具", "かぐ"}, {"家電", "かでん"}, {"電化製品", "でんかせいひん"}, {"文房具", "ぶんぼうぐ"},
	{"楽器", "がっき"}, {"自然", "しぜん"}, {"天気", "てんき"}, {"液体", "えきたい"},
	{"金属", "きんぞく"}, {"鳥", "とり"}, {"魚", "さかな"}, {"虫", "むし"},
	{"花", "はな"}, {"木", "き"}, {"料理", "りょうり"}, {"日用品", "にちようひん"},
	{"容器", "ようき"}, {"入れ物", "いれもの"}, {"部品", "ぶひん"}, {"物", "もの"},
	{"生物", "せいぶつ"}, {"無生物", "むせいぶつ"}, {"人工物", "じんこうぶつ"}, {"食品", "しょくひん"},
	{"衣類", "いるい"}, {"電子機器", "でんしきき"}, {"工具", "こうぐ"}, {"食器", "しょっき"},
	{"装飾品", "そうしょくひん"}, {"感情", "かんじょう"},
}

// readings is keyed by the normalized form of either side of a pair.
var readings = buildReadings(readingPairs)

func buildReadings(pairs [][2]string) map[string][]string {
	m := make(map[string][]string, len(pairs)*2)
	link := func(from, to string) {
		for _, v := range m[from] {
			if v == to {
				return
			}
		}
		m[from] = append(m[from], to)
	}
	for _, p := range pairs {
		w, r := Normalize(p[0]), Normalize(p[1])
		link(w, r)
		link(r, w)
	}
	return m
}
