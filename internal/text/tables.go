package text

// stopWords are filtered out of clustering token sets. English function
// words plus a few newsroom fillers ("new", "said", "according").
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "between": true,
	"among": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "shall": true, "can": true, "need": true,
	"dare": true, "ought": true, "used": true, "it": true, "its": true,
	"itself": true, "this": true, "that": true, "these": true,
	"those": true, "i": true, "me": true, "my": true, "myself": true,
	"we": true, "our": true, "ours": true, "ourselves": true, "you": true,
	"your": true, "yours": true, "yourself": true, "yourselves": true,
	"he": true, "him": true, "his": true, "himself": true, "she": true,
	"her": true, "hers": true, "herself": true, "they": true, "them": true,
	"their": true, "theirs": true, "themselves": true, "what": true,
	"which": true, "who": true, "whom": true, "whose": true,
	"whatever": true, "whichever": true, "whoever": true, "whomever": true,
	"as": true, "until": true, "while": true, "so": true, "than": true,
	"too": true, "very": true, "just": true, "now": true, "then": true,
	"once": true, "here": true, "there": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "nor": true, "not": true, "only": true, "own": true,
	"same": true, "s": true, "t": true, "don": true, "doesn": true,
	"didn": true, "wasn": true, "weren": true, "haven": true, "hasn": true,
	"hadn": true, "won": true, "wouldn": true, "couldn": true,
	"shouldn": true, "isn": true, "aren": true, "ain": true, "ma": true,
	"mightn": true, "mustn": true, "needn": true, "shan": true,
	"let": true, "mayn": true, "oughtn": true, "new": true, "said": true,
	"say": true, "says": true, "according": true, "also": true,
	"per": true, "amid": true, "off": true, "over": true, "under": true,
	"again": true, "further": true,
}

// tradToSimp covers the traditional/simplified differences that show up in
// the scenarios this engine watches; a full conversion library is
// deliberately not pulled in for this.
var tradToSimp = map[rune]rune{
	'兩': '两', '與': '与', '為': '为', '亞': '亚', '佈': '布', '來': '来',
	'個': '个', '價': '价', '內': '内', '關': '关', '協': '协', '區': '区',
	'參': '参', '單': '单', '號': '号', '圍': '围', '國': '国', '圖': '图',
	'壓': '压', '備': '备', '實': '实', '對': '对', '導': '导', '將': '将',
	'島': '岛', '層': '层', '彈': '弹', '戰': '战', '應': '应', '數': '数',
	'會': '会', '條': '条', '東': '东', '機': '机', '權': '权', '檢': '检',
	'氣': '气', '峽': '峡', '灣': '湾', '發': '发', '監': '监', '礎': '础',
	'級': '级', '終': '终', '統': '统', '線': '线', '續': '续', '罰': '罚',
	'習': '习', '聲': '声', '聯': '联', '臺': '台', '製': '制', '衝': '冲',
	'規': '规', '覺': '觉', '觀': '观', '觸': '触', '許': '许', '證': '证',
	'讓': '让', '訓': '训', '該': '该', '說': '说', '調': '调', '護': '护',
	'軍': '军', '轉': '转', '進': '进', '運': '运', '選': '选', '邊': '边',
	'釋': '释', '錄': '录', '長': '长', '際': '际', '電': '电', '韓': '韩',
	'體': '体', '點': '点', '攔': '拦', '艦': '舰', '鏈': '链',
}
