package http

// SendMessage godoc
// @Summary Send a chat message
// @Description Greetings and off-topic questions get canned replies; allergy questions go to the assistant
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Message"
// @Success 200 {object} object{success=bool,data=object{topic=string,message=object,reply=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/chat/messages [post]
func (h *ChatHandler) SendMessageDoc() {}

// History godoc
// @Summary Chat transcript
// @Tags Chat
// @Produce json
// @Success 200 {object} object{success=bool,data=object{messages=array,state=string}}
// @Router /api/chat/messages [get]
func (h *ChatHandler) HistoryDoc() {}

// Classify godoc
// @Summary Classify a message without sending it
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Message"
// @Success 200 {object} object{success=bool,data=object{topic=string}}
// @Router /api/chat/classify [post]
func (h *ChatHandler) ClassifyDoc() {}
